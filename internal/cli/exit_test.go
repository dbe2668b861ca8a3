package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aryankumar/probectl/internal/util"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: ExitOK},
		{name: "probes failed", err: fmt.Errorf("%w: 1/2 probes succeeded", util.ErrProbesFailed), want: ExitFailed},
		{name: "interrupted", err: fmt.Errorf("backoff of db: %w", context.Canceled), want: ExitInterrupted},
		{name: "invalid plan", err: util.NewValidationError("probes[0]", "", "name is required"), want: ExitUsage},
		{name: "invalid config", err: util.ErrInvalidConfig, want: ExitUsage},
		{name: "unknown probe type", err: util.WrapProbeError("a", util.ErrUnknownProbeType), want: ExitUsage},
		{name: "other", err: errors.New("boom"), want: ExitFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
