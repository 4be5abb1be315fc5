package wrangler

import (
	"errors"
	"fmt"
)

// ErrorClass classifies a failure for boundary handling. The two externally
// visible categories are validation failures and missing resources; anything
// else is internal.
type ErrorClass string

const (
	// ErrorClassValidation indicates the input configuration violates the
	// schema or range constraints. Recoverable by correcting input.
	ErrorClassValidation ErrorClass = "validation"

	// ErrorClassNotFound indicates an expected file is absent. Callers
	// performing status or read operations must distinguish this from a
	// present-but-sparse artifact.
	ErrorClassNotFound ErrorClass = "not_found"

	// ErrorClassInternal indicates a non-domain failure (I/O, encoding).
	ErrorClassInternal ErrorClass = "internal"
)

// Error is a classified error with file context.
type Error struct {
	// Class is the error classification.
	Class ErrorClass `json:"class"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Path is the file path involved, if applicable.
	Path string `json:"path,omitempty"`

	// Err is the underlying error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s (path=%s)", e.Class, e.Message, e.Path)
	}
	return fmt.Sprintf("[%s] %s", e.Class, e.Message)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a not-found error for the given path.
func NewNotFoundError(message, path string, err error) *Error {
	return &Error{
		Class:   ErrorClassNotFound,
		Message: message,
		Path:    path,
		Err:     err,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(message string, err error) *Error {
	return &Error{
		Class:   ErrorClassInternal,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a validation-class error.
func NewValidationError(message string, err error) *Error {
	return &Error{
		Class:   ErrorClassValidation,
		Message: message,
		Err:     err,
	}
}

// IsNotFound returns true if the error is classified as not-found.
func IsNotFound(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Class == ErrorClassNotFound
	}
	return false
}

// IsValidation returns true if the error is classified as a validation failure.
func IsValidation(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Class == ErrorClassValidation
	}
	return false
}
