// Package apperr defines the error taxonomy shared by every record-access
// operation. Services only ever return *Error values, so callers can branch on
// Kind without inspecting store-specific error types.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConnectivity Kind = "connectivity"
	KindConstraint   Kind = "constraint"
	KindInternal     Kind = "internal"
)

// ConnectivityMessage is shown to users when the store cannot be reached.
const ConnectivityMessage = "Could not connect to the database. Please check your connection and try again."

// Error is a classified failure with a user-facing message.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports a missing or malformed input field.
func Validation(field, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: msg}
}

// Required is shorthand for Validation(field, "<field> is required").
func Required(field string) *Error {
	return Validation(field, field+" is required")
}

// NotFound reports that the referenced record does not exist.
func NotFound(entity, id string) *Error {
	msg := entity + " not found"
	if id != "" {
		msg = fmt.Sprintf("%s %s not found", entity, id)
	}
	return &Error{Kind: KindNotFound, Message: msg}
}

// Connectivity reports that the store is unreachable.
func Connectivity(err error) *Error {
	return &Error{Kind: KindConnectivity, Message: ConnectivityMessage, Err: err}
}

// Constraint reports a uniqueness or integrity violation.
func Constraint(msg string, err error) *Error {
	return &Error{Kind: KindConstraint, Message: msg, Err: err}
}

// Internal wraps an unclassified failure.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the user-facing message of err. Unclassified errors get a
// generic message so internals are never leaked.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConstraint:
		return http.StatusConflict
	case KindConnectivity:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
