package util

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common error types for probectl
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidPlan indicates a malformed probe plan
	ErrInvalidPlan = errors.New("invalid plan")

	// ErrUnknownProbeType indicates a plan references a probe type with no check
	ErrUnknownProbeType = errors.New("unknown probe type")

	// ErrConnectionFailed indicates a connection failure
	ErrConnectionFailed = errors.New("connection failed")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCancelled indicates an operation was cancelled
	ErrCancelled = errors.New("operation cancelled")

	// ErrProbesFailed indicates a run finished but not every probe succeeded
	ErrProbesFailed = errors.New("probes failed")
)

// ProbeError wraps an error with the qualified name of the probe that produced it
type ProbeError struct {
	Probe string
	Err   error
}

// Error implements the error interface
func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %q: %v", e.Probe, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *ProbeError) Unwrap() error {
	return e.Err
}

// WrapProbeError wraps an error with probe context
func WrapProbeError(probe string, err error) error {
	if err == nil {
		return nil
	}
	return &ProbeError{
		Probe: probe,
		Err:   err,
	}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors occurred:", len(m.Errors))
	for i, err := range m.Errors {
		if i < 10 {
			fmt.Fprintf(&sb, "\n  %d. %v", i+1, err)
		} else {
			fmt.Fprintf(&sb, "\n  ... and %d more errors", len(m.Errors)-10)
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Len returns the number of collected errors
func (m *MultiError) Len() int {
	return len(m.Errors)
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// Unwrap makes every validation error match ErrInvalidPlan
func (v *ValidationError) Unwrap() error {
	return ErrInvalidPlan
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsCancelled checks if an error is a cancellation error
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// FriendlyError converts technical errors to operator-facing messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case IsTimeout(err):
		return "Operation timed out. Increase the probe timeout or the --timeout flag."
	case IsCancelled(err):
		return "Run was cancelled."
	case errors.Is(err, ErrUnknownProbeType):
		return "Plan references an unknown probe type: " + err.Error()
	case errors.Is(err, ErrInvalidPlan):
		return "Invalid plan: " + err.Error()
	case errors.Is(err, ErrInvalidConfig):
		return "Invalid configuration: " + err.Error()
	case errors.Is(err, ErrConnectionFailed):
		return "Connection failed: " + err.Error()
	default:
		return err.Error()
	}
}

// WrapErrorf wraps an error with a formatted message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
