// Package apperr defines the error kinds the public API reports.
//
// Handlers and the connection accessor return *Error values; jsonutil.Fail
// maps the kind to an HTTP status and writes the client-safe message. The
// wrapped cause is for logs only and is never sent to the caller.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error.
type Kind string

const (
	KindInvalidPayload     Kind = "INVALID_PAYLOAD"
	KindMissingField       Kind = "MISSING_FIELD"
	KindInvalidEmail       Kind = "INVALID_EMAIL"
	KindServiceUnavailable Kind = "SERVICE_UNAVAILABLE"
	KindInternal           Kind = "INTERNAL_ERROR"
)

// Error is an application error with a client-facing message.
type Error struct {
	Kind    Kind
	Message string
	Field   string // set for KindMissingField
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// InvalidPayload reports a request body that is not a usable JSON object.
func InvalidPayload(message string, err error) *Error {
	if message == "" {
		message = "Invalid JSON"
	}
	return New(KindInvalidPayload, message, err)
}

// MissingField reports a required field that is absent or blank.
func MissingField(field string) *Error {
	e := New(KindMissingField, field+" is required", nil)
	e.Field = field
	return e
}

// InvalidEmail reports an email that fails the syntactic check.
func InvalidEmail() *Error {
	return New(KindInvalidEmail, "Invalid email format", nil)
}

// Unavailable reports that the datastore cannot be used.
func Unavailable(message string, err error) *Error {
	return New(KindServiceUnavailable, message, err)
}

// Internal reports any other unexpected failure.
func Internal(message string, err error) *Error {
	return New(KindInternal, message, err)
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to the status code the API responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidPayload, KindMissingField, KindInvalidEmail:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe message for err.
// Errors that are not *Error never leak their text.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return "An unexpected error occurred"
}
