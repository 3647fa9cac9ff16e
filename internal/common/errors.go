package common

import (
	"errors"
	"fmt"
)

// ErrorType classifies failures so the HTTP layer can pick a status code
// without inspecting messages.
type ErrorType string

const (
	// ErrorTypeValidation marks bad or missing client input.
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeNotFound marks a missing record.
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeConfig marks a missing credential or other operator misconfiguration.
	ErrorTypeConfig ErrorType = "CONFIG"

	// ErrorTypeUpstream marks a non-2xx response or network failure from a third-party provider.
	ErrorTypeUpstream ErrorType = "UPSTREAM"

	// ErrorTypeUnknown marks anything else.
	ErrorTypeUnknown ErrorType = "UNKNOWN"
)

// AppError is the error type returned across package boundaries.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

func NewConfigError(message string) *AppError {
	return &AppError{Type: ErrorTypeConfig, Message: message}
}

func NewUpstreamError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeUpstream, Message: message, Err: err}
}

func NewUnknownError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeUnknown, Message: message, Err: err}
}

// TypeOf returns the type of the first AppError in err's chain, or
// ErrorTypeUnknown when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

// IsType reports whether err carries an AppError of type t.
func IsType(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// MessageOf returns the AppError message in err's chain, or "" when there is none.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}
