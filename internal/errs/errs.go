// Package errs contains the error kinds shared by the model, service and
// handler layers. Each kind maps to exactly one HTTP status at the boundary.
package errs

import (
	"errors"
	"fmt"
)

// Kinds. Match with errors.Is.
var (
	// ErrValidation indicates malformed or out-of-range input.
	ErrValidation = errors.New("validation error")

	// ErrConflict indicates a uniqueness violation (username or email taken).
	ErrConflict = errors.New("conflict")

	// ErrAuth indicates bad credentials, a deactivated account or a rejected token.
	ErrAuth = errors.New("authentication failed")

	// ErrForbidden indicates an authenticated caller acting on something it may not touch.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates an unknown id.
	ErrNotFound = errors.New("not found")

	// ErrDomain indicates an illegal state transition.
	ErrDomain = errors.New("domain rule violated")

	// ErrInvalidToken indicates a bad signature, malformed payload or expired token.
	ErrInvalidToken = errors.New("invalid token")
)

// Error carries a human readable message together with its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Unwrap exposes the kind so errors.Is works through wrapping.
func (e *Error) Unwrap() error { return e.Kind }

func newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error { return newf(ErrValidation, format, args...) }
func Conflict(format string, args ...any) error   { return newf(ErrConflict, format, args...) }
func Auth(format string, args ...any) error       { return newf(ErrAuth, format, args...) }
func Forbidden(format string, args ...any) error  { return newf(ErrForbidden, format, args...) }
func NotFound(format string, args ...any) error   { return newf(ErrNotFound, format, args...) }
func Domain(format string, args ...any) error     { return newf(ErrDomain, format, args...) }
func InvalidToken(format string, args ...any) error {
	return newf(ErrInvalidToken, format, args...)
}

// Message returns the human readable part of err. Errors that are not *Error
// yield their kind text, or "internal error" when no kind matches.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	for _, k := range []error{ErrValidation, ErrConflict, ErrAuth, ErrForbidden, ErrNotFound, ErrDomain, ErrInvalidToken} {
		if errors.Is(err, k) {
			return k.Error()
		}
	}
	return "internal error"
}
