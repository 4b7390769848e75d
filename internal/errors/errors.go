package errors

import (
	"fmt"
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

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
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
	if appErr, ok := err.(*AppError); ok {
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
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes. Each pipeline stage fails with exactly one of these,
// so a run's failure kind is diagnosable from the code alone.
const (
	CodeConfigInvalid  = "CONFIG_INVALID"
	CodeNetworkError   = "NETWORK_ERROR"
	CodeSchemaError    = "SCHEMA_ERROR"
	CodeRecodeError    = "RECODE_ERROR"
	CodeSynthesisError = "SYNTHESIS_ERROR"
	CodeIOError        = "IO_ERROR"
	CodeInternalError  = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// NetworkError covers transport failures, timeouts and non-2xx responses from
// the microdata feed.
func NetworkError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeNetworkError,
		Message: message,
		Cause:   cause,
	}
}

// AuthRejected is a NETWORK_ERROR whose message makes a credential rejection
// distinguishable from a plain transport failure.
func AuthRejected(status int) *AppError {
	return New(CodeNetworkError, fmt.Sprintf("authentication rejected by data source (status %d): check the configured API key", status))
}

// SchemaError covers malformed responses and unexpected or missing columns.
func SchemaError(message string) *AppError {
	return New(CodeSchemaError, message)
}

// RecodeError reports a categorical code outside the documented enumeration,
// naming the offending column and value.
func RecodeError(column string, value interface{}, reason string) *AppError {
	return New(CodeRecodeError, fmt.Sprintf("column %q: value %v %s", column, value, reason))
}

// SynthesisError covers degenerate input columns, insufficient sample size and
// model-fit failures.
func SynthesisError(message string) *AppError {
	return New(CodeSynthesisError, message)
}

// IOError covers export failures (unwritable path, disk full). Not retried.
func IOError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeIOError,
		Message: message,
		Cause:   cause,
	}
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
