package model

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// DefaultErrorMessage is reported when an error carries no message
const DefaultErrorMessage = "Internal Server Error"

// HTTPError is an error that carries the HTTP status it should be reported with
type HTTPError struct {
	StatusCode int
	Message    string
	Err        error
	stack      string
}

// NewHTTPError creates an HTTPError and records the caller's stack
func NewHTTPError(statusCode int, message string) *HTTPError {
	return newHTTPError(statusCode, message, nil)
}

// WrapHTTPError creates an HTTPError that keeps err as its cause
func WrapHTTPError(statusCode int, message string, err error) *HTTPError {
	return newHTTPError(statusCode, message, err)
}

// newHTTPError must be called directly by an exported constructor so the
// recorded stack starts at the constructor's caller.
func newHTTPError(statusCode int, message string, err error) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
		stack:      callers(4),
	}
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// HTTPStatus exposes the status code to StatusCode
func (e *HTTPError) HTTPStatus() int {
	return e.StatusCode
}

// StackTrace returns the stack recorded when the error was created
func (e *HTTPError) StackTrace() string {
	return e.stack
}

// Common error constructors

func NewNotFoundError(method, path string) *HTTPError {
	return newHTTPError(http.StatusNotFound, fmt.Sprintf("Route %s %s not found", method, path), nil)
}

func NewBadRequestError(message string, err error) *HTTPError {
	return newHTTPError(http.StatusBadRequest, message, err)
}

func NewForbiddenError(message string) *HTTPError {
	return newHTTPError(http.StatusForbidden, message, nil)
}

func NewPayloadTooLargeError(limit int64) *HTTPError {
	return newHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", limit), nil)
}

// stackError attaches a stack to an error that has none
type stackError struct {
	err   error
	stack string
}

func (e *stackError) Error() string      { return e.err.Error() }
func (e *stackError) Unwrap() error      { return e.err }
func (e *stackError) StackTrace() string { return e.stack }

// WithStack records the caller's stack on err unless it already carries one.
// A nil error stays nil.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	if Stack(err) != "" {
		return err
	}
	return &stackError{err: err, stack: callers(3)}
}

// StatusCode returns the status carried by err, or 500 when it carries none
// or carries a value outside the valid HTTP range.
func StatusCode(err error) int {
	var coded interface{ HTTPStatus() int }
	if errors.As(err, &coded) {
		if code := coded.HTTPStatus(); code >= 400 && code <= 599 {
			return code
		}
	}
	return http.StatusInternalServerError
}

// Message returns the error's message, or DefaultErrorMessage when empty
func Message(err error) string {
	if err == nil {
		return DefaultErrorMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}

// Stack returns the first stack trace found in err's chain
func Stack(err error) string {
	var traced interface{ StackTrace() string }
	if errors.As(err, &traced) {
		return traced.StackTrace()
	}
	return ""
}

// callers formats the stack starting skip frames above itself
func callers(skip int) string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return b.String()
}
