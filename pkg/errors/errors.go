// Package errors provides structured error types for hextile.
//
// Error codes let the CLI, the HTTP API and library callers react to a
// failure without parsing message strings:
//   - INVALID_*: input validation failures (recoverable by the caller)
//   - *_NOT_FOUND: missing patterns, images or files
//   - GENERATION_INVARIANT: an internal engine invariant broke mid-run
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidParams, "total_tiles must be between 1 and 1000")
//	if errors.Is(err, errors.ErrCodeInvalidParams) {
//	    // re-prompt for corrected parameters
//	}
//
//	// Attach the offending field
//	err := errors.Field(errors.ErrCodeInvalidParams, "counts", "sum %d != total_tiles %d", sum, n)
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "encode png")
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidParams Code = "INVALID_PARAMS"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle  Code = "INVALID_STYLE"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidImage  Code = "INVALID_IMAGE"
	ErrCodeTooLarge      Code = "INVALID_SIZE"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodePatternNotFound Code = "PATTERN_NOT_FOUND"
	ErrCodeImageNotFound   Code = "IMAGE_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Engine errors
	ErrCodeInvariant Code = "GENERATION_INVARIANT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Field   string // Offending input field (optional)
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
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

// Field creates a new Error that names the input field at fault.
func Field(code Code, field, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Field:   field,
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

// GetField extracts the offending field name from an error, if any.
func GetField(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message (prefixed by the field, if set)
// without the code prefix. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Field != "" {
			return e.Field + ": " + e.Message
		}
		return e.Message
	}
	return err.Error()
}

// IsValidation reports whether err carries one of the INVALID_* codes.
func IsValidation(err error) bool {
	return strings.HasPrefix(string(GetCode(err)), "INVALID_")
}

// IsNotFound reports whether err carries one of the not-found codes.
func IsNotFound(err error) bool {
	code := GetCode(err)
	return code == ErrCodeNotFound || strings.HasSuffix(string(code), "_NOT_FOUND")
}

// HTTPStatus maps an error to the HTTP status the API responds with.
// Validation failures are 422 so that clients can tell them apart from
// malformed request bodies (400).
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidation(err):
		return http.StatusUnprocessableEntity
	case IsNotFound(err):
		return http.StatusNotFound
	case Is(err, ErrCodeUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
