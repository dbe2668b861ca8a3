package report

import (
	"bytes"
	"testing"

	"github.com/aryankumar/probectl/internal/probe"
)

func TestConsoleSink_Publish(t *testing.T) {
	tests := []struct {
		name   string
		opts   ConsoleOptions
		result probe.Result
		want   string
	}{
		{
			name:   "ok without retries",
			opts:   ConsoleOptions{NoColor: true},
			result: probe.Result{Name: "OK probe", Status: probe.StatusOK},
			want:   "OK probe => OK\n",
		},
		{
			name:   "ok with message",
			opts:   ConsoleOptions{NoColor: true},
			result: probe.Result{Name: "OK probe", Message: "message", Status: probe.StatusOK},
			want:   "OK probe => OK\n    message\n",
		},
		{
			name:   "retry shows count and message",
			opts:   ConsoleOptions{NoColor: true, ShowRetryMessages: true},
			result: probe.Result{Name: "RETRY probe", Message: "message", Status: probe.StatusRetry, Retries: 1},
			want:   "RETRY probe => RETRY(1)\n    message\n",
		},
		{
			name:   "retry message hidden",
			opts:   ConsoleOptions{NoColor: true, ShowRetryMessages: false},
			result: probe.Result{Name: "RETRY probe", Message: "message", Status: probe.StatusRetry, Retries: 1},
			want:   "RETRY probe => RETRY(1)\n",
		},
		{
			name:   "error message kept when retry messages hidden",
			opts:   ConsoleOptions{NoColor: true, ShowRetryMessages: false},
			result: probe.Result{Name: "ERROR probe", Message: "message", Status: probe.StatusError, Retries: 2},
			want:   "ERROR probe => ERROR(2)\n    message\n",
		},
		{
			name:   "multi-line message is indented",
			opts:   ConsoleOptions{NoColor: true},
			result: probe.Result{Name: "FATAL probe", Message: "first\nsecond\n", Status: probe.StatusFatal, Retries: 3},
			want:   "FATAL probe => FATAL(3)\n    first\n    second\n",
		},
		{
			name:   "symbols",
			opts:   ConsoleOptions{NoColor: true, Symbols: true},
			result: probe.Result{Name: "p", Status: probe.StatusFatal},
			want:   "☠ p => FATAL\n",
		},
		{
			name:   "started symbol",
			opts:   ConsoleOptions{NoColor: true, Symbols: true},
			result: probe.Result{Name: "p", Status: probe.StatusStarted},
			want:   "▶ p => STARTED\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := NewConsoleSink(&buf, tt.opts)
			s.Publish(tt.result)
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestConsoleSink_PrintSummary(t *testing.T) {
	tests := []struct {
		name    string
		results []probe.Result
		want    string
	}{
		{
			name: "all succeeded",
			results: []probe.Result{
				{Name: "a", Status: probe.StatusOK},
				{Name: "b", Status: probe.StatusOK},
			},
			want: "2 probes all succeeded\n",
		},
		{
			name: "some failed",
			results: []probe.Result{
				{Name: "a", Status: probe.StatusOK},
				{Name: "b", Status: probe.StatusRetry},
				{Name: "b", Status: probe.StatusFatal, Retries: 1},
				{Name: "c", Status: probe.StatusError},
			},
			want: "2/3 probes FAILED\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := NewConsoleSink(&buf, ConsoleOptions{NoColor: true})
			for _, r := range tt.results {
				s.Publish(r)
			}
			buf.Reset()

			s.PrintSummary()
			if buf.String() != tt.want {
				t.Errorf("summary = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestConsoleSink_WithEngine(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsoleSink(&buf, ConsoleOptions{NoColor: true})
	engine := probe.NewEngine(console)

	if err := engine.Must(bgCtx(), "disk", okOp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "disk => OK\n" {
		t.Errorf("output = %q", buf.String())
	}
	if !console.AllSuccessful() || console.TotalCount() != 1 {
		t.Error("console sink should count the probe")
	}
}
