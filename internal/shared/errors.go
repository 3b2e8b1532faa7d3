package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. It is deliberately
	// generic: callers must not learn whether the email or the password
	// was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMalformedSessionRecord indicates a persisted session record that
	// failed to parse or lacked required fields. The record is discarded
	// on detection; the error is never shown to users.
	ErrMalformedSessionRecord = errors.New("malformed session record")
	// ErrNoSession occurs when session-scoped state is accessed outside a
	// request carrying a session.
	ErrNoSession = errors.New("no session in scope")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// UserSafeMessage maps internal errors to a string safe to render to the
// user. Unknown errors collapse to a generic message.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, ErrNotFound):
		return "The requested record could not be found."
	default:
		return "Something went wrong. Please try again."
	}
}
