package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aryankumar/probectl/internal/plan"
	"github.com/aryankumar/probectl/internal/probe"
	"github.com/aryankumar/probectl/internal/report"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate PLAN",
		Short: "Check a plan and list its probes",
		Long: `Parse and validate a plan file without running it.

The qualified name of every probe is listed with its type, failure policy
and effective retry settings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validatePlan(cmd, args[0])
		},
	}
}

func (a *app) validatePlan(cmd *cobra.Command, path string) error {
	p, err := plan.Load(path)
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(a.cfg.Defaults.OutputFormat)
	if err != nil {
		return err
	}

	fallback := plan.Settings{
		Retries: a.cfg.Defaults.Retries,
		Backoff: a.cfg.Defaults.Backoff,
		Timeout: a.cfg.Defaults.Timeout,
	}

	var rows []map[string]interface{}
	_ = p.Walk(func(path probe.Path, pr plan.Probe) error {
		s := pr.Resolve(p.Defaults, fallback)
		rows = append(rows, map[string]interface{}{
			"probe":   path.Push(pr.Name).Name(),
			"type":    pr.Type,
			"policy":  policy(pr),
			"retries": s.Retries,
			"backoff": s.Backoff.String(),
			"timeout": s.Timeout.String(),
		})
		return nil
	})

	formatter := report.NewFormatter(format, report.WithNoColor(a.cfg.Defaults.NoColor))
	if err := formatter.Format(cmd.OutOrStdout(), rows); err != nil {
		return fmt.Errorf("failed to write probe list: %w", err)
	}

	name := p.Name
	if name == "" {
		name = path
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "plan %s is valid: %d probes\n", name, len(rows))
	return nil
}

func policy(p plan.Probe) string {
	switch {
	case p.Must:
		return "must"
	case p.Optional:
		return "optional"
	default:
		return "retry"
	}
}
