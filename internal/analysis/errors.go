package analysis

import (
	"errors"
	"net/http"
)

// Kind classifies a failure so the HTTP boundary can pick a status code
type Kind string

const (
	KindConfiguration  Kind = "configuration"
	KindValidation     Kind = "validation"
	KindInferenceEmpty Kind = "inference_empty"
	KindProvider       Kind = "provider"
	KindSchema         Kind = "schema"
	KindInternal       Kind = "internal"
)

// Error carries a failure kind, a human-readable message and an optional cause
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError creates an Error of the given kind
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Err != nil:
		return e.Err.Error()
	case e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, KindInternal for foreign errors
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// StatusCode maps err to the HTTP status returned to the client.
// Only validation failures are the caller's fault.
func StatusCode(err error) int {
	if KindOf(err) == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Detail renders err as the "detail" string of an error response
func Detail(err error) string {
	switch KindOf(err) {
	case KindValidation:
		return "Invalid request: " + err.Error()
	case KindConfiguration:
		return err.Error()
	default:
		return "Analysis engine error: " + err.Error()
	}
}
