package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"

	"paleocore/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. The code of an AppError in the
// chain is kept; anything else is classified from the domain sentinels.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    classify(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

func classify(err error) string {
	var appErr *AppError
	switch {
	case stderrors.As(err, &appErr):
		return appErr.Code
	case core.IsNotFoundError(err):
		return CodeNotFound
	case core.IsValidationError(err), stderrors.Is(err, core.ErrInsufficientData):
		return CodeInvalidInput
	case stderrors.Is(err, fs.ErrNotExist), stderrors.Is(err, fs.ErrPermission):
		return CodeIOError
	default:
		return CodeInternalError
	}
}

// Predefined error codes
const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeNotFound      = "NOT_FOUND"
	CodeIOError       = "IO_ERROR"
	CodeInternalError = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func IOError(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeIOError,
		Message: fmt.Sprintf("cannot access %s", path),
		Cause:   cause,
	}
}
