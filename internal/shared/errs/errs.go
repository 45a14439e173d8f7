// Package errs defines the error taxonomy shared by the domain services and
// the HTTP layer.
//
// Services return *Error values carrying a Kind; handlers translate the kind
// into a status code at the boundary. Nothing below the handlers knows about
// HTTP.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	// Internal is an I/O or backend fault.
	Internal Kind = iota
	// InvalidInput is a malformed request value, e.g. a path-escaping filename.
	InvalidInput
	// NotFound means the target does not exist.
	NotFound
	// Conflict means the target already exists.
	Conflict
	// TooLarge means the request body exceeds the configured limit.
	TooLarge
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case TooLarge:
		return "too_large"
	default:
		return "internal"
	}
}

// Error is a classified failure with operation context.
type Error struct {
	Kind Kind   // classification
	Op   string // operation that failed
	Msg  string // client-facing message
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Msg != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an *Error.
func E(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// Invalid returns an InvalidInput error.
func Invalid(op, msg string, err error) *Error {
	return E(InvalidInput, op, msg, err)
}

// Missing returns a NotFound error.
func Missing(op, msg string) *Error {
	return E(NotFound, op, msg, nil)
}

// Exists returns a Conflict error.
func Exists(op, msg string) *Error {
	return E(Conflict, op, msg, nil)
}

// Oversized returns a TooLarge error.
func Oversized(op, msg string, err error) *Error {
	return E(TooLarge, op, msg, err)
}

// Fault returns an Internal error wrapping err.
func Fault(op, msg string, err error) *Error {
	return E(Internal, op, msg, err)
}

// KindOf reports the kind of the first *Error in err's chain.
// Unclassified errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the client-facing message of err, or "" when none is set.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return ""
}

// Detail returns the underlying cause text for diagnostics.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// HTTPStatus maps err onto a response status.
// Conflict answers 400 with an explicit message rather than 409.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case InvalidInput, Conflict:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case TooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
