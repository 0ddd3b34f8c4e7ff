package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeInvalid            ErrorCode = "INVALID"
	ErrCodeConflict           ErrorCode = "CONFLICT"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal           ErrorCode = "INTERNAL"
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches domain errors by code and message so sentinel comparisons survive wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidationError collects field errors into a single INVALID error.
// The message of the first field becomes the error message.
func NewValidationError(fields ...FieldError) *Error {
	msg := ErrInvalidPayload.Message
	if len(fields) > 0 {
		msg = fields[0].Msg
	}
	return &Error{Code: ErrCodeInvalid, Message: msg, Fields: fields}
}

// Common domain errors.
var (
	ErrAccountNotFound    = NewError(ErrCodeNotFound, "account not found")
	ErrTaskNotFound       = NewError(ErrCodeNotFound, "Task not found")
	ErrDuplicateEmail     = NewError(ErrCodeConflict, "Email already exists. Please register with new email")
	ErrInvalidCredentials = NewError(ErrCodeInvalidCredentials, "Invalid credentials")
	ErrUnauthenticated    = NewError(ErrCodeUnauthorized, "Not Authorized")
	ErrInvalidToken       = NewError(ErrCodeUnauthorized, "Token is invalid")
	ErrForbidden          = NewError(ErrCodeForbidden, "Not authorized")
	ErrInvalidPayload     = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
