// Package common defines shared constants, sentinel errors and small byte
// helpers used across rerange packages. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// Auth errors.
	ErrInvalidPassword = errors.New("invalid password")
	ErrEmailTaken      = errors.New("user with this email already exists")
	ErrInvalidCode     = errors.New("invalid activation code")
	ErrCodeAlreadyUsed = errors.New("this activation code has already been used")

	// Session errors.
	ErrSubscriptionExpired = errors.New("subscription expired")
	ErrNotAuthenticated    = errors.New("not authenticated")

	// Input errors. Usually wrapped with the offending field.
	ErrValidation = errors.New("validation error")

	// Collaborator errors (AI, storage backends reached over the network).
	ErrExternalService = errors.New("external service error")

	// Snapshot/ticket errors.
	ErrInvalidToken = errors.New("invalid token")
)

// IsAuthError reports whether err is one of the credential or activation
// failures a signup/login/reactivate form should show inline.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidPassword) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrInvalidCode) ||
		errors.Is(err, ErrCodeAlreadyUsed)
}
