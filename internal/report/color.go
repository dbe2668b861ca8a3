package report

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/aryankumar/probectl/internal/probe"
)

// ColorScheme provides color functions for different output elements
type ColorScheme struct {
	// Name colors probe names
	Name func(format string, a ...interface{}) string

	// Started colors STARTED
	Started func(format string, a ...interface{}) string

	// Success colors OK
	Success func(format string, a ...interface{}) string

	// Warning colors RETRY
	Warning func(format string, a ...interface{}) string

	// Error colors ERROR
	Error func(format string, a ...interface{}) string

	// Fatal colors FATAL
	Fatal func(format string, a ...interface{}) string

	// Header colors table headers
	Header func(format string, a ...interface{}) string

	// Duration colors duration values
	Duration func(format string, a ...interface{}) string

	// Disabled indicates if colors are disabled
	Disabled bool
}

// NewColorScheme creates a new color scheme
// Colors are automatically disabled for non-TTY outputs or when noColor is true
func NewColorScheme(w io.Writer, noColor bool) *ColorScheme {
	if noColor || !isTTY(w) {
		plain := color.New()
		plain.DisableColor()
		return &ColorScheme{
			Name:     plain.Sprintf,
			Started:  plain.Sprintf,
			Success:  plain.Sprintf,
			Warning:  plain.Sprintf,
			Error:    plain.Sprintf,
			Fatal:    plain.Sprintf,
			Header:   plain.Sprintf,
			Duration: plain.Sprintf,
			Disabled: true,
		}
	}

	return newEnabledScheme()
}

func newEnabledScheme() *ColorScheme {
	return &ColorScheme{
		Name:     enabled(color.FgCyan, color.Bold).Sprintf,
		Started:  enabled(color.FgBlue).Sprintf,
		Success:  enabled(color.FgGreen).Sprintf,
		Warning:  enabled(color.FgYellow).Sprintf,
		Error:    enabled(color.FgRed).Sprintf,
		Fatal:    enabled(color.FgRed, color.Bold).Sprintf,
		Header:   enabled(color.FgWhite, color.Bold).Sprintf,
		Duration: enabled(color.FgBlue).Sprintf,
		Disabled: false,
	}
}

// enabled builds a color that ignores color.NoColor, which fatih/color sets
// from stdout even when we write elsewhere
func enabled(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// isTTY checks if the writer is a TTY
func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// StatusColor returns the color function for a probe status
func (cs *ColorScheme) StatusColor(status probe.Status) func(format string, a ...interface{}) string {
	switch status {
	case probe.StatusStarted:
		return cs.Started
	case probe.StatusOK:
		return cs.Success
	case probe.StatusRetry:
		return cs.Warning
	case probe.StatusError:
		return cs.Error
	default:
		return cs.Fatal
	}
}
