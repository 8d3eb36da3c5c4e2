// Package domainerrors provides code-based errors for the application layer.
// Services return these so transports can map failures to responses without
// string matching.
//
// For infrastructure facts (entity missing from a store, wrong persisted
// state) stores return pkg/platform/sentinel errors instead; services
// translate those into domain errors at the boundary.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks blank or malformed caller input. Nothing was changed.
	CodeValidation Code = "validation"
	// CodeBadRequest marks a structurally invalid request (bad JSON, wrong types).
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks an unknown shipment, pack, or batch.
	CodeNotFound Code = "not_found"
	// CodeConflict marks an attempt to create something that already exists.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation marks an operation attempted in the wrong
	// lifecycle state, e.g. a shipment transition outside the linear order.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeUnauthorized marks a missing or invalid admin credential.
	CodeUnauthorized Code = "unauthorized"
	// CodeInternal marks an infrastructure failure the caller cannot fix.
	CodeInternal Code = "internal"
)

// Error is a domain error with a classification code.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. The cause stays
// reachable through errors.Is / errors.Unwrap.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// HasCode reports whether err is (or wraps) a domain error with the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code of err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
