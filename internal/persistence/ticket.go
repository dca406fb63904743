package persistence

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims of a session ticket. Subject carries the account email and
// ExpiresAt the account's subscription expiry.
type Claims struct {
	jwt.RegisteredClaims
}

const ticketIssuer = "rerange"

// IssueTicket signs a ticket binding the active session to email until
// expiry.
func IssueTicket(email string, expiry time.Time, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ticketIssuer,
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	})
	return token.SignedString(secret)
}

// TicketEmail verifies a ticket against secret at now and returns its
// subject.
func TicketEmail(ticket string, secret []byte, now time.Time) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(ticket, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ticketIssuer),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}
