package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrValidation
	ErrUnauthorized
	ErrForbidden
	ErrConflict
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors
func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
	}
}

func Validationf(format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: message,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// CodeOf returns the AppError code of err, or ErrInternal when err is not an
// AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
