package probe

import (
	"fmt"
	"time"
)

// Status is the kind of event a probe reports
type Status int

const (
	// StatusStarted announces a probe that may take a while; reporting it is optional
	StatusStarted Status = iota
	// StatusOK means the probe succeeded
	StatusOK
	// StatusRetry means the probe failed transiently and will be attempted again
	StatusRetry
	// StatusError means the probe failed; other probes keep running
	StatusError
	// StatusFatal means the probe failed and the orchestration is aborted
	StatusFatal
)

// String returns the upper-case status label used in reports
func (s Status) String() string {
	switch s {
	case StatusStarted:
		return "STARTED"
	case StatusOK:
		return "OK"
	case StatusRetry:
		return "RETRY"
	case StatusError:
		return "ERROR"
	case StatusFatal:
		return "FATAL"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Terminal reports whether the status completes a probe
func (s Status) Terminal() bool {
	return s == StatusOK || s == StatusError || s == StatusFatal
}

// MarshalText encodes the status by its label
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is one reported event for one probe
// Results are built by the engine right before they are published and never modified
type Result struct {
	// Name is the fully qualified probe name
	Name string `json:"name" yaml:"name"`

	// Message is optional detail, for instance the description of a failure
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// Status is the kind of event
	Status Status `json:"status" yaml:"status"`

	// Retries is the number of retry attempts already made
	Retries int `json:"retries" yaml:"retries"`

	// Time is when the result was published
	Time time.Time `json:"time" yaml:"time"`
}

// HasMessage reports whether the result carries detail
func (r Result) HasMessage() bool {
	return r.Message != ""
}
