package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/rerange/internal/common"
)

// authFailed marks a credential or activation-code rejection from the
// signup, login and reactivate flows. It keeps an unknown email from being
// reported like a missing list or note.
type authFailed struct {
	op  string
	err error
}

func (e *authFailed) Error() string { return e.op + ": " + e.err.Error() }

func (e *authFailed) Unwrap() error { return e.err }

// checkAuth logs and marks auth errors coming out of op; other errors pass
// through unchanged.
func (a *App) checkAuth(ctx context.Context, op, email string, err error) error {
	if err == nil || !common.IsAuthError(err) {
		return err
	}
	a.logger.Warn(ctx, op+" rejected", "email", email, "error", err)
	return &authFailed{op: op, err: err}
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return "No account with this email."
	case errors.Is(err, common.ErrInvalidPassword):
		return "Invalid password."
	case errors.Is(err, common.ErrEmailTaken):
		return "User with this email already exists."
	case errors.Is(err, common.ErrInvalidCode):
		return "Invalid activation code."
	case errors.Is(err, common.ErrCodeAlreadyUsed):
		return "This activation code has already been used."
	default:
		return err.Error()
	}
}

// describeError turns an error from a command into a line for the user.
func describeError(err error) string {
	var af *authFailed
	switch {
	case errors.As(err, &af):
		return authMessage(af.err)
	case errors.Is(err, common.ErrNotAuthenticated):
		return "Please login first."
	case errors.Is(err, common.ErrSubscriptionExpired):
		return "Subscription expired. Use 'reactivate' with a new activation code."
	case errors.Is(err, common.ErrExternalService):
		return "AI assistant unavailable: " + err.Error()
	case errors.Is(err, common.ErrValidation):
		return "Invalid input: " + err.Error()
	case errors.Is(err, common.ErrNotFound):
		return "Not found: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}
