package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of application error.
type ErrorCode int

const (
	ErrNotFound ErrorCode = iota + 1000
	ErrValidation
	ErrFieldNotAllowed
	ErrImmutableField
	ErrConflict
	ErrForbidden
	ErrUnauthorized
	ErrDependencyFailure
	ErrInternal
)

// AppError is the error type returned by every service operation. Op carries
// the "<component>-<operation>" tag surfaced in the API error envelope.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Op      string    `json:"op,omitempty"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithOp tags the error with a component-operation pair, keeping the
// innermost tag when one is already set.
func (e *AppError) WithOp(op string) *AppError {
	if e.Op == "" {
		e.Op = op
	}
	return e
}

// CodeOf extracts the ErrorCode from err, defaulting to ErrInternal.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func Validation(field, reason string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: fmt.Sprintf("invalid value for %q: %s", field, reason),
	}
}

func FieldNotAllowed(field string) *AppError {
	return &AppError{
		Code:    ErrFieldNotAllowed,
		Message: fmt.Sprintf("field %q is not allowed", field),
	}
}

func ImmutableField(field string) *AppError {
	return &AppError{
		Code:    ErrImmutableField,
		Message: fmt.Sprintf("field %q is immutable", field),
	}
}

func Conflict(field, value string) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: fmt.Sprintf("%s %q is already in use", field, value),
	}
}

func Forbidden(reason string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: reason,
	}
}

func Unauthorized(reason string) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: reason,
	}
}

func DependencyFailure(step string, err error) *AppError {
	return &AppError{
		Code:    ErrDependencyFailure,
		Message: fmt.Sprintf("dependent step %q failed", step),
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal error",
		Err:     err,
	}
}
