package checks

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/aryankumar/probectl/internal/probe"
)

// maxOutput bounds the command output kept in a failure message
const maxOutput = 2048

// Command runs a local command; a non-zero exit is a failure
// The combined output of a failed run is included in the error
func Command(name string, args ...string) probe.Operation {
	return func(ctx context.Context) error {
		if strings.TrimSpace(name) == "" {
			return errors.New("exec probe: command is required")
		}

		cmd := exec.CommandContext(contextOrBackground(ctx), name, args...)
		out, err := cmd.CombinedOutput()
		if err == nil {
			return nil
		}

		output := strings.TrimSpace(string(out))
		if len(output) > maxOutput {
			output = output[:maxOutput] + "..."
		}
		if output == "" {
			return errors.Wrapf(err, "exec probe: %s failed", name)
		}
		return errors.Wrapf(err, "exec probe: %s failed: %s", name, output)
	}
}
