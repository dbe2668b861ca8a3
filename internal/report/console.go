package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aryankumar/probectl/internal/probe"
)

// ConsoleOptions selects how a ConsoleSink renders results
type ConsoleOptions struct {
	// ShowRetryMessages prints the failure detail under RETRY lines
	ShowRetryMessages bool

	// Symbols prefixes each line with a status symbol
	Symbols bool

	// NoColor disables colors even on a terminal
	NoColor bool
}

// DefaultConsoleOptions shows everything
func DefaultConsoleOptions() ConsoleOptions {
	return ConsoleOptions{ShowRetryMessages: true, Symbols: true}
}

var symbols = map[probe.Status]string{
	probe.StatusStarted: "▶",
	probe.StatusOK:      "✔",
	probe.StatusRetry:   "↻",
	probe.StatusError:   "✘",
	probe.StatusFatal:   "☠",
}

// ConsoleSink prints every result as a line of the form
//
//	name => STATUS(retries)
//	    message
//
// and counts probes like CountingSink.
type ConsoleSink struct {
	CountingSink

	mu      sync.Mutex
	w       io.Writer
	options ConsoleOptions
	colors  *ColorScheme
}

// NewConsoleSink creates a console sink writing to w
func NewConsoleSink(w io.Writer, opts ConsoleOptions) *ConsoleSink {
	return &ConsoleSink{
		CountingSink: CountingSink{names: make(map[string]struct{})},
		w:            w,
		options:      opts,
		colors:       NewColorScheme(w, opts.NoColor),
	}
}

// Publish implements probe.Sink
func (s *ConsoleSink) Publish(result probe.Result) {
	s.CountingSink.Publish(result)

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, s.formatLine(result))

	if !result.HasMessage() {
		return
	}
	if result.Status == probe.StatusRetry && !s.options.ShowRetryMessages {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(result.Message, "\n"), "\n") {
		fmt.Fprintf(s.w, "    %s\n", line)
	}
}

func (s *ConsoleSink) formatLine(result probe.Result) string {
	status := result.Status.String()
	if result.Retries > 0 {
		status = fmt.Sprintf("%s(%d)", status, result.Retries)
	}
	if !s.colors.Disabled {
		status = s.colors.StatusColor(result.Status)("%s", status)
	}

	line := fmt.Sprintf("%s => %s", result.Name, status)
	if s.options.Symbols {
		sym := symbols[result.Status]
		if !s.colors.Disabled {
			sym = s.colors.StatusColor(result.Status)("%s", sym)
		}
		line = sym + " " + line
	}
	return line
}

// PrintSummary writes the one-line verdict for the run
func (s *ConsoleSink) PrintSummary() {
	total := s.TotalCount()
	success := s.SuccessCount()

	s.mu.Lock()
	defer s.mu.Unlock()

	if success == total {
		fmt.Fprintf(s.w, "%d probes all succeeded\n", total)
		return
	}

	verdict := fmt.Sprintf("%d/%d probes FAILED", total-success, total)
	if !s.colors.Disabled {
		verdict = s.colors.Fatal("%s", verdict)
	}
	fmt.Fprintln(s.w, verdict)
}
