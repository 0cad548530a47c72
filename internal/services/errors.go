package services

import (
	"errors"

	"github.com/isdelr/pokermaster-be/internal/validation"
)

// Error kinds returned by AuthService. Match them with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInternal           = errors.New("internal error")
)

// Error is a typed service failure. Kind is one of the sentinels above,
// Message is safe to show to clients, and Fields lists per-field problems
// for validation and conflict failures.
type Error struct {
	Kind    error
	Message string
	Fields  []validation.FieldError
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Kind.Error() + ": " + e.Message + ": " + e.cause.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Kind, e.cause}
	}
	return []error{e.Kind}
}

// Cause returns the underlying error, if any. It is for logs only.
func (e *Error) Cause() error { return e.cause }

// Client-facing messages.
const (
	MsgInvalidInput       = "Invalid input data"
	MsgEmailTaken         = "This email address is already in use"
	MsgUsernameTaken      = "This username is already taken"
	MsgInvalidCredentials = "Invalid email or password"
	MsgAuthRequired       = "Authentication required"
	MsgInvalidToken       = "Invalid or expired token"
	MsgUserNotFound       = "User not found"
	MsgInternal           = "Internal server error"
)

func validationError(fields []validation.FieldError) *Error {
	return &Error{Kind: ErrValidation, Message: MsgInvalidInput, Fields: fields}
}

func emailTaken() *Error {
	return &Error{
		Kind:    ErrConflict,
		Message: MsgEmailTaken,
		Fields:  []validation.FieldError{{Field: "email", Message: "Email address is already registered"}},
	}
}

func usernameTaken() *Error {
	return &Error{
		Kind:    ErrConflict,
		Message: MsgUsernameTaken,
		Fields:  []validation.FieldError{{Field: "username", Message: "Username is already taken"}},
	}
}

// invalidCredentials is shared by unknown-email and wrong-password failures
// so callers cannot tell them apart.
func invalidCredentials() *Error {
	return &Error{Kind: ErrInvalidCredentials, Message: MsgInvalidCredentials}
}

func unauthenticated() *Error {
	return &Error{Kind: ErrUnauthenticated, Message: MsgAuthRequired}
}

func internal(cause error) *Error {
	return &Error{Kind: ErrInternal, Message: MsgInternal, cause: cause}
}

// AsError extracts a *Error from err, wrapping unknown errors as internal.
func AsError(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return internal(err)
}
