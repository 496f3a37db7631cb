// Package apperr defines the error type surfaced to API clients.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an Error.
type Code string

const (
	CodeNotFound             Code = "NOT_FOUND"
	CodeInvalidInput         Code = "INVALID_INPUT"
	CodeMalformedCatalog     Code = "MALFORMED_CATALOG"
	CodeIncompleteSubmission Code = "INCOMPLETE_SUBMISSION"
	CodeLockedOut            Code = "LOCKED_OUT"
	CodeNoHearts             Code = "NO_HEARTS"
	CodeConflict             Code = "CONFLICT"
	CodeLLMUnavailable       Code = "LLM_UNAVAILABLE"
	CodeInternal             Code = "INTERNAL"
)

// Error carries a Code, a client-safe message and the underlying cause.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	}{e.Code, e.Message})
}

// Status maps the code onto an HTTP status.
func (e *Error) Status() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidInput, CodeMalformedCatalog, CodeIncompleteSubmission:
		return http.StatusBadRequest
	case CodeLockedOut, CodeNoHearts:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	case CodeLLMUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func New(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return New(CodeNotFound, message, nil)
}

func InvalidInput(message string) *Error {
	return New(CodeInvalidInput, message, nil)
}

func Conflict(message string, err error) *Error {
	return New(CodeConflict, message, err)
}

func Internal(message string, err error) *Error {
	return New(CodeInternal, message, err)
}

// CodeOf returns the code of the first *Error in err's chain, or
// CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
