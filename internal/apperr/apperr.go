// Package apperr defines the structured errors returned to API callers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeInvalidBody  Code = "INVALID_BODY"
	CodeNotFound     Code = "NOT_FOUND"
	CodeNotAllowed   Code = "METHOD_NOT_ALLOWED"
	CodeInternal     Code = "INTERNAL"
)

// GenericMessage is shown for failures the caller cannot fix.
const GenericMessage = "Something went wrong. Please try again."

// Error carries the message a caller displays verbatim and the HTTP status
// that goes with it.
type Error struct {
	Code    Code
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidInput wraps a validation failure; its text becomes the message.
func InvalidInput(err error) *Error {
	return &Error{Code: CodeInvalidInput, Message: err.Error(), Status: http.StatusBadRequest, Err: err}
}

// InvalidBody reports a body that could not be decoded.
func InvalidBody(err error) *Error {
	return &Error{Code: CodeInvalidBody, Message: err.Error(), Status: http.StatusBadRequest, Err: err}
}

// NotFound reports a missing resource.
func NotFound(what string) *Error {
	return &Error{Code: CodeNotFound, Message: what + " not found", Status: http.StatusNotFound}
}

// MethodNotAllowed reports a route that exists for other methods.
func MethodNotAllowed(method string) *Error {
	return &Error{Code: CodeNotAllowed, Message: "method " + method + " not allowed", Status: http.StatusMethodNotAllowed}
}

// Internal hides err behind the generic message.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: GenericMessage, Status: http.StatusInternalServerError, Err: err}
}

// From returns err as an *Error, treating anything unrecognized as internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}
