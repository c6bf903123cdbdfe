// Package domainerrors defines the tagged error type shared by models,
// services and the HTTP boundary.
//
// Every error carries a Code (its kind), a client-safe Message and, for
// validation failures, a list of per-field messages. Infrastructure causes can
// be attached with Wrap; they are reachable through errors.Unwrap but never
// rendered to clients.
package domainerrors

import (
	"errors"
	"net/http"
	"strings"
)

// Code identifies the kind of failure.
type Code string

const (
	// CodeInvariantViolation: a construction or mutation invariant of an
	// entity was violated.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeNotFound: a referenced entity does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict: a uniqueness rule (id or name) would be violated.
	CodeConflict Code = "conflict"
	// CodeIntegrityConstraint: the store refused a delete because the row is
	// referenced elsewhere.
	CodeIntegrityConstraint Code = "integrity_constraint"
	// CodeValidation: boundary-level structural validation failed.
	CodeValidation Code = "validation_error"
	// CodeBadRequest: the request could not be decoded.
	CodeBadRequest Code = "bad_request"
	// CodeRateLimited: the caller exceeded its request allowance.
	CodeRateLimited Code = "rate_limited"
	// CodeTimeout: the request context expired before completion.
	CodeTimeout Code = "timeout"
	// CodeInternal: anything unclassified.
	CodeInternal Code = "internal_error"
)

// Error is the tagged variant returned across layers.
type Error struct {
	Code    Code
	Message string
	Fields  []string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds an error of the given kind.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches an underlying cause to a new error of the given kind.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Validation builds a CodeValidation error listing per-field messages.
func Validation(msg string, fields ...string) *Error {
	return &Error{Code: CodeValidation, Message: msg, Fields: fields}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err (or anything it wraps) is an *Error with code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// CodeOf returns the code of err, or CodeInternal when err is unclassified.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps an error code to the status the boundary responds with.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvariantViolation, CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeIntegrityConstraint:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Join renders field messages for logs.
func (e *Error) Join() string {
	return strings.Join(e.Fields, "; ")
}
