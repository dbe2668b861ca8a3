package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aryankumar/probectl/internal/util"
)

// Format represents the output format type
type Format string

const (
	// FormatTable outputs data in a table format (kubectl-style)
	FormatTable Format = "table"
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
)

// ParseFormat validates an output flag value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("%w: unknown output format %q (want table, json or yaml)", util.ErrInvalidConfig, s)
	}
}

// Formatter defines the interface for output formatting
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatOutcomes outputs the final report of a run to the writer
	FormatOutcomes(w io.Writer, outcomes []Outcome) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool

	// Wide enables wide output with additional columns
	Wide bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}

// outcomeDoc is the serialized form of an Outcome
type outcomeDoc struct {
	Name     string    `json:"name" yaml:"name"`
	Status   string    `json:"status" yaml:"status"`
	Retries  int       `json:"retries" yaml:"retries"`
	Message  string    `json:"message,omitempty" yaml:"message,omitempty"`
	Started  time.Time `json:"started" yaml:"started"`
	Duration string    `json:"duration" yaml:"duration"`
}

type summaryDoc struct {
	Total     int     `json:"total" yaml:"total"`
	Succeeded int     `json:"succeeded" yaml:"succeeded"`
	Failed    int     `json:"failed" yaml:"failed"`
	Success   float64 `json:"successRate" yaml:"successRate"`
}

type reportDoc struct {
	Summary summaryDoc   `json:"summary" yaml:"summary"`
	Probes  []outcomeDoc `json:"probes" yaml:"probes"`
}

// newReportDoc converts outcomes into the document written by the json and yaml formatters
func newReportDoc(outcomes []Outcome) reportDoc {
	summary := Summarize(outcomes)
	doc := reportDoc{
		Summary: summaryDoc{
			Total:     summary.Total,
			Succeeded: summary.Succeeded,
			Failed:    summary.Failed,
			Success:   summary.SuccessRate(),
		},
		Probes: make([]outcomeDoc, len(outcomes)),
	}

	for i, o := range outcomes {
		doc.Probes[i] = outcomeDoc{
			Name:     o.Name,
			Status:   o.Status.String(),
			Retries:  o.Retries,
			Message:  o.Message,
			Started:  o.Started,
			Duration: o.Duration().Round(time.Millisecond).String(),
		}
	}
	return doc
}
