package probe

import (
	"errors"
	"fmt"
)

// ErrFatal matches every fatal abort raised by an engine
//
// Fatal aborts unwind sections, retry loops and parallel groups unchanged;
// check for them with IsFatal rather than comparing concrete types.
var ErrFatal = errors.New("fatal probe failure")

// FatalError is the abort signal produced when a probe reports a fatal result
type FatalError struct {
	// Name is the qualified name the fatal result was reported under
	Name string

	// Message is the detail that was reported
	Message string

	// Retries is the retry count at the time of the failure
	Retries int
}

// Error implements the error interface
func (e *FatalError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("probe %q failed fatally", e.Name)
	}
	return fmt.Sprintf("probe %q failed fatally: %s", e.Name, firstLine(e.Message))
}

// Is makes FatalError match ErrFatal
func (e *FatalError) Is(target error) bool {
	return target == ErrFatal
}

// SkippedError is returned by probes and branches that did not start because
// the orchestration had already been aborted
type SkippedError struct {
	// Name is the qualified name of the probe or branch that was skipped
	Name string

	// Cause is the fatal abort that stopped the orchestration
	Cause error
}

// Error implements the error interface
func (e *SkippedError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("skipped after abort: %v", e.Cause)
	}
	return fmt.Sprintf("probe %q skipped after abort: %v", e.Name, e.Cause)
}

// Unwrap returns the fatal abort that caused the skip
func (e *SkippedError) Unwrap() error {
	return e.Cause
}

// InterruptedError reports a backoff sleep or a wait that was cut short
// It is an engine failure, never a probe outcome
type InterruptedError struct {
	// Name is the qualified name of the probe that was waiting, if any
	Name string

	// Err is the context error that interrupted the wait
	Err error
}

// Error implements the error interface
func (e *InterruptedError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("interrupted: %v", e.Err)
	}
	return fmt.Sprintf("probe %q interrupted: %v", e.Name, e.Err)
}

// Unwrap returns the context error
func (e *InterruptedError) Unwrap() error {
	return e.Err
}

// OrchestrationError reports branch failures of a parallel group that did
// not go through the fatal path
type OrchestrationError struct {
	Err error
}

// Error implements the error interface
func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("orchestration failed: %v", e.Err)
}

// Unwrap returns the aggregated branch failures
func (e *OrchestrationError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err is, or wraps, a fatal abort
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal)
}

// IsSkipped reports whether err is a skip caused by an earlier abort
func IsSkipped(err error) bool {
	var skipped *SkippedError
	return errors.As(err, &skipped)
}

// AsFatal extracts the fatal abort from err
func AsFatal(err error) (*FatalError, bool) {
	var fatal *FatalError
	if errors.As(err, &fatal) {
		return fatal, true
	}
	return nil, false
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
