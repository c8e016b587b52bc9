// Package errors carries the coded error type shared by every datalens service
package errors

// Import as perr to keep the standard library errors package usable alongside

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine readable half of an error
// The numeric values travel in every error envelope; append only
type ErrorCode uint16

const (
	// ErrorCodeUnknown is anything we could not classify
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic marks a handler panic caught by RecoverJSON
	ErrorCodePanic

	// ErrorCodeUnavailable means a dependency is down or timed out; retrying may help
	ErrorCodeUnavailable

	// ErrorCodeTooManyRequests is the in-flight cap rejecting work
	ErrorCodeTooManyRequests

	// ErrorCodeConflict is a state conflict other than a unique violation
	ErrorCodeConflict

	// ErrorCodeUnauthorized is a missing or rejected credential
	ErrorCodeUnauthorized

	// ErrorCodeForbidden covers guarded SQL and capability checks
	ErrorCodeForbidden

	// ErrorCodeInvalidArgument is a well formed request naming something we cannot serve
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is a body that failed struct validation
	ErrorCodeValidation

	// ErrorCodeJSON is a body that failed to decode
	ErrorCodeJSON

	// ErrorCodeNotFound is a missing chart, dashboard, dataset or query
	ErrorCodeNotFound

	// ErrorCodeDuplicateKey is a unique constraint violation
	ErrorCodeDuplicateKey

	// ErrorCodeDB is any other metadata store failure
	ErrorCodeDB

	// ErrorCodeUpstream is a failure reported by an analytics backend
	ErrorCodeUpstream
)

// HTTPStatusCode maps a code onto the status the API answers with
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeInvalidArgument:
		return http.StatusUnprocessableEntity
	case ErrorCodeDuplicateKey, ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrNotFound is returned by store helpers when a lookup matches nothing
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error pairs a client safe message with a code, an optional offending field
// and the cause it wraps. Only msg and field ever reach the wire.
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
}

// Wire is the error body embedded in the response envelope
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the request field the error points at, if any
func (e *Error) Field() string { return e.field }

// WireFrom renders any error for the envelope. Foreign errors surface as
// Unknown with their own text; nil renders the zero Wire.
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return Wire{Code: e.code, Message: e.msg, Field: e.field}
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// CodeOf returns the code of the first *Error in the chain, or Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is HTTPStatusCode(CodeOf(err))
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As finds the first *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// WithField returns a copy of err pointing at field. Foreign errors pass through.
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap keeps orig as the cause; msg is what clients see
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// Shorthands, one per code the services raise directly

func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }
func Forbiddenf(format string, a ...any) error { return Newf(ErrorCodeForbidden, format, a...) }
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }
func Upstreamf(format string, a ...any) error { return Newf(ErrorCodeUpstream, format, a...) }
