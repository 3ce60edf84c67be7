// Package errors gives every failure in the spending tools a
// machine-readable [Code], so the CLI can pick an exit status and the
// server an HTTP status for the same error.
//
//	err := errors.New(errors.ErrCodeInvalidID, "invalid agency id: %q", id)
//	if errors.Is(err, errors.ErrCodeInvalidID) {
//	    // reject the request
//	}
//
//	err = errors.Wrap(errors.ErrCodeNetwork, cause, "fetch %s", key)
//
// Codes fall into four classes: INVALID_* for bad input, *NOT_FOUND for
// levels with no data, NETWORK_ERROR, TIMEOUT and RATE_LIMITED for
// upstream failures, and INTERNAL_ERROR or UNSUPPORTED for the rest.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidID     Code = "INVALID_ID"
	ErrCodeInvalidAmount Code = "INVALID_AMOUNT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidView   Code = "INVALID_VIEW"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeLevelNotFound Code = "LEVEL_NOT_FOUND"

	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Process exit statuses, following sysexits(3).
const (
	ExitFailure     = 1
	ExitUsage       = 64 // EX_USAGE
	ExitNoInput     = 66 // EX_NOINPUT
	ExitUnavailable = 69 // EX_UNAVAILABLE
	ExitConfig      = 78 // EX_CONFIG
)

type class struct {
	status int
	exit   int
}

var classes = map[Code]class{
	ErrCodeInvalidInput:  {http.StatusBadRequest, ExitUsage},
	ErrCodeInvalidID:     {http.StatusBadRequest, ExitUsage},
	ErrCodeInvalidAmount: {http.StatusBadRequest, ExitUsage},
	ErrCodeInvalidFormat: {http.StatusBadRequest, ExitUsage},
	ErrCodeInvalidView:   {http.StatusBadRequest, ExitUsage},
	ErrCodeInvalidPath:   {http.StatusBadRequest, ExitUsage},
	ErrCodeInvalidConfig: {http.StatusInternalServerError, ExitConfig},
	ErrCodeNotFound:      {http.StatusNotFound, ExitNoInput},
	ErrCodeLevelNotFound: {http.StatusNotFound, ExitNoInput},
	ErrCodeNetwork:       {http.StatusBadGateway, ExitUnavailable},
	ErrCodeTimeout:       {http.StatusGatewayTimeout, ExitUnavailable},
	ErrCodeRateLimited:   {http.StatusTooManyRequests, ExitUnavailable},
	ErrCodeUnsupported:   {http.StatusNotImplemented, ExitFailure},
	ErrCodeInternal:      {http.StatusInternalServerError, ExitFailure},
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code
// prefix, or err.Error() for any other error.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to the status code the server responds with.
// Uncoded errors are 500.
func HTTPStatus(err error) int {
	if c, ok := classes[GetCode(err)]; ok {
		return c.status
	}
	return http.StatusInternalServerError
}

// ExitCode maps err to a process exit status. Uncoded errors exit 1.
func ExitCode(err error) int {
	if c, ok := classes[GetCode(err)]; ok {
		return c.exit
	}
	return ExitFailure
}
