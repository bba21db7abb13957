// Package errors provides structured error types for gitxmas.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, server and library callers
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration validation failures
//   - NOT_*: Resource not found
//   - GIT_*, CACHE_*: Failures of external collaborators
//   - INTERNAL_*: Unexpected internal errors
//
// Structural graph anomalies (dangling parents, cyclic ancestry) are never
// reported through this package: the layout engine recovers from them locally.
// Configuration anomalies are surfaced immediately with [ErrCodeInvalidConfig].
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "branch spacing must be positive, got %g", v)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Ask the user to correct the value
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeGitFailed, origErr, "git log in %s", repo)
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPolicy Code = "INVALID_POLICY"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeNotARepository  Code = "NOT_A_REPOSITORY"
	ErrCodeCommitNotFound  Code = "COMMIT_NOT_FOUND"
	ErrCodeLayoutNotLoaded Code = "LAYOUT_NOT_LOADED"

	// Collaborator errors
	ErrCodeGitFailed Code = "GIT_FAILED"
	ErrCodeCache     Code = "CACHE_ERROR"

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

// HTTPStatus maps an error code to the HTTP status the server reports for it.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidFormat, ErrCodeInvalidPolicy, ErrCodeInvalidPath:
		return 400
	case ErrCodeNotFound, ErrCodeCommitNotFound, ErrCodeNotARepository:
		return 404
	case ErrCodeLayoutNotLoaded:
		return 503
	case ErrCodeUnsupported:
		return 501
	default:
		return 500
	}
}
