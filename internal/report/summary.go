package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/aryankumar/probectl/internal/probe"
)

// Summary provides a summary of probe outcomes
type Summary struct {
	Total       int
	Succeeded   int
	Failed      int
	Errors      int
	Fatal       int
	Unfinished  int
	AvgDuration time.Duration
	MaxDuration time.Duration
}

// Summarize creates a summary of the outcomes
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}

	var total time.Duration
	for _, o := range outcomes {
		switch o.Status {
		case probe.StatusOK:
			s.Succeeded++
		case probe.StatusError:
			s.Errors++
		case probe.StatusFatal:
			s.Fatal++
		default:
			s.Unfinished++
		}

		d := o.Duration()
		total += d
		if d > s.MaxDuration {
			s.MaxDuration = d
		}
	}

	s.Failed = s.Total - s.Succeeded
	if s.Total > 0 {
		s.AvgDuration = total / time.Duration(s.Total)
	}
	return s
}

// String returns a human-readable string representation of the summary
func (s Summary) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total: %d, ", s.Total))
	sb.WriteString(fmt.Sprintf("Succeeded: %d, ", s.Succeeded))
	sb.WriteString(fmt.Sprintf("Failed: %d", s.Failed))

	if s.Failed > 0 {
		sb.WriteString(fmt.Sprintf(" (errors=%d, fatal=%d, unfinished=%d)", s.Errors, s.Fatal, s.Unfinished))
	}
	if s.Total > 0 {
		sb.WriteString(fmt.Sprintf(", Avg: %s", s.AvgDuration.Round(time.Millisecond)))
		sb.WriteString(fmt.Sprintf(", Max: %s", s.MaxDuration.Round(time.Millisecond)))
	}

	return sb.String()
}

// SuccessRate returns the success rate as a percentage (0.0 to 100.0)
func (s Summary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0.0
	}
	return float64(s.Succeeded) / float64(s.Total) * 100.0
}

// FilterFailed returns the outcomes that did not end OK
func FilterFailed(outcomes []Outcome) []Outcome {
	filtered := make([]Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Succeeded() {
			filtered = append(filtered, o)
		}
	}
	return filtered
}
