package client

import (
	"errors"
)

// Sentinel errors, one per failure kind. Every *Error unwraps to exactly one of these.
var (
	// ErrAuthentication is returned for 401 responses and rejected logins.
	ErrAuthentication = errors.New("authentication required")

	// ErrValidation is returned for 400, 409 and 422 responses and for client-side input checks.
	ErrValidation = errors.New("validation failed")

	// ErrAuthorization is returned for 403 responses and denied admin commands.
	ErrAuthorization = errors.New("not authorized")

	// ErrTransport is returned when the backend could not be reached.
	ErrTransport = errors.New("backend unreachable")

	// ErrUnexpected covers every other failure status.
	ErrUnexpected = errors.New("unexpected error")
)

// Kind classifies a failure.
type Kind int

const (
	KindUnexpected Kind = iota
	KindAuthentication
	KindValidation
	KindAuthorization
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindTransport:
		return "transport"
	default:
		return "unexpected"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindAuthentication:
		return ErrAuthentication
	case KindValidation:
		return ErrValidation
	case KindAuthorization:
		return ErrAuthorization
	case KindTransport:
		return ErrTransport
	default:
		return ErrUnexpected
	}
}

// Error is the single failure shape surfaced to callers. Error() is the
// human readable message, ready for display.
type Error struct {
	Kind   Kind
	Status int
	// Message is the display string.
	Message string
	// RedirectToLogin is set when the failure ended the session.
	RedirectToLogin bool

	cause error
}

// NewError returns an error of the given kind with a display message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError is NewError with an underlying cause kept for errors.Is/As.
func WrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fallbackMessage
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// KindOf returns the kind of err, KindUnexpected when err is not classified.
func KindOf(err error) Kind {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	switch {
	case errors.Is(err, ErrAuthentication):
		return KindAuthentication
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrAuthorization):
		return KindAuthorization
	case errors.Is(err, ErrTransport):
		return KindTransport
	}
	return KindUnexpected
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Status
	}
	return 0
}

// RedirectsToLogin reports whether err ended the session and the caller should send the user to login.
func RedirectsToLogin(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.RedirectToLogin
}
