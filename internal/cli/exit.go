package cli

import (
	"errors"

	"github.com/aryankumar/probectl/internal/util"
)

// Exit codes returned by ExitCode
const (
	ExitOK          = 0
	ExitFailed      = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// ExitCode maps the error returned by Execute to a process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, util.ErrProbesFailed):
		return ExitFailed
	case util.IsCancelled(err):
		return ExitInterrupted
	case errors.Is(err, util.ErrInvalidPlan),
		errors.Is(err, util.ErrInvalidConfig),
		errors.Is(err, util.ErrUnknownProbeType):
		return ExitUsage
	default:
		return ExitFailed
	}
}
