// Package errors provides structured error types for nodevis.
//
// Errors carry a machine-readable [Code] next to a human-readable message so
// the CLI, the HTTP server and library callers can react to a failure class
// without string matching.
//
// # Error Codes
//
// Codes follow the same naming convention throughout:
//   - INVALID_*: input validation failures (style types, layouts, coordinates)
//   - NOT_FOUND / NO_SELECTION: lookups that resolved to nothing
//   - PERSISTENCE / NETWORK / TIMEOUT: I/O against stores and data sources
//   - INTERNAL / UNSUPPORTED: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidStyle, "unknown style type %q", typ)
//	if errors.Is(err, errors.ErrCodeInvalidStyle) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodePersistence, origErr, "save layout %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidStyle       Code = "INVALID_STYLE"
	ErrCodeInvalidLayout      Code = "INVALID_LAYOUT"
	ErrCodeInvalidCoordinates Code = "INVALID_COORDINATES"
	ErrCodeInvalidOption      Code = "INVALID_OPTION"
	ErrCodeInvalidHierarchy   Code = "INVALID_HIERARCHY"

	// Lookup errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeNoSelection Code = "NO_SELECTION"

	// I/O errors
	ErrCodePersistence Code = "PERSISTENCE"
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
