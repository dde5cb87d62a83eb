// Package errors provides typed errors for release-runner
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrConfig indicates a configuration error
	ErrConfig ErrorType = iota
	// ErrEnv indicates a build environment setup or teardown error
	ErrEnv
	// ErrTest indicates a test suite failure
	ErrTest
	// ErrBuild indicates an artifact build error
	ErrBuild
	// ErrUpload indicates a registry upload error
	ErrUpload
	// ErrAuth indicates a registry authentication error
	ErrAuth
	// ErrValidation indicates an input validation error
	ErrValidation
	// ErrTimeout indicates a timeout occurred
	ErrTimeout
)

// RunnerError is the base error type for all release-runner errors
type RunnerError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns the error message
func (e *RunnerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", errorTypeString(e.Type), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", errorTypeString(e.Type), e.Message)
}

// Unwrap returns the underlying cause
func (e *RunnerError) Unwrap() error {
	return e.Cause
}

// New creates a new RunnerError
func New(errType ErrorType, message string, cause error) *RunnerError {
	return &RunnerError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *RunnerError) WithContext(key string, value interface{}) *RunnerError {
	e.Context[key] = value
	return e
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var runErr *RunnerError
	if err == nil {
		return false
	}
	if errors.As(err, &runErr) {
		return runErr.Type == errType
	}
	return false
}

// IsFatal returns true if the error must abort the current platform run.
// Authentication errors are suppressed when a session already exists, so
// they are the only non-fatal category at this level; duplicate-version
// upload tolerance is decided closer to the registry clients.
func IsFatal(err error) bool {
	var runErr *RunnerError
	if err == nil {
		return false
	}
	if !errors.As(err, &runErr) {
		return true
	}
	return runErr.Type != ErrAuth
}

func errorTypeString(et ErrorType) string {
	switch et {
	case ErrConfig:
		return "CONFIG"
	case ErrEnv:
		return "ENV"
	case ErrTest:
		return "TEST"
	case ErrBuild:
		return "BUILD"
	case ErrUpload:
		return "UPLOAD"
	case ErrAuth:
		return "AUTH"
	case ErrValidation:
		return "VALIDATION"
	case ErrTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// Convenience functions for common errors

// ConfigError creates a configuration error
func ConfigError(message string, cause error) *RunnerError {
	return New(ErrConfig, message, cause)
}

// EnvError creates a build environment error
func EnvError(message string, cause error) *RunnerError {
	return New(ErrEnv, message, cause)
}

// TestError creates a test suite failure error
func TestError(message string, cause error) *RunnerError {
	return New(ErrTest, message, cause)
}

// BuildError creates an artifact build error
func BuildError(message string, cause error) *RunnerError {
	return New(ErrBuild, message, cause)
}

// UploadError creates a registry upload error
func UploadError(message string, cause error) *RunnerError {
	return New(ErrUpload, message, cause)
}

// AuthError creates a registry authentication error
func AuthError(message string, cause error) *RunnerError {
	return New(ErrAuth, message, cause)
}

// ValidationError creates a validation error
func ValidationError(message string, cause error) *RunnerError {
	return New(ErrValidation, message, cause)
}

// TimeoutError creates a timeout error
func TimeoutError(message string, cause error) *RunnerError {
	return New(ErrTimeout, message, cause)
}
