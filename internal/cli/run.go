package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aryankumar/probectl/internal/checks"
	"github.com/aryankumar/probectl/internal/cluster"
	"github.com/aryankumar/probectl/internal/config"
	"github.com/aryankumar/probectl/internal/executor"
	"github.com/aryankumar/probectl/internal/metrics"
	"github.com/aryankumar/probectl/internal/plan"
	"github.com/aryankumar/probectl/internal/probe"
	"github.com/aryankumar/probectl/internal/report"
	"github.com/aryankumar/probectl/internal/util"
)

// shutdownGrace bounds how long a finished run waits for the worker pool
const shutdownGrace = 5 * time.Second

func newRunCmd(a *app) *cobra.Command {
	var wide bool

	cmd := &cobra.Command{
		Use:   "run PLAN",
		Short: "Run the probes of a plan",
		Long: `Run every probe of a plan file and report the results.

Progress lines are written to stderr as probes report. The final report is
written to stdout in the selected output format. The command fails when any
probe did not succeed.`,
		Example: `  # Run a plan
  probectl run deploy.yaml

  # Run with variables from a file and a JSON report
  probectl run deploy.yaml --env-file .env -o json

  # Run parallel sections one branch at a time
  probectl run deploy.yaml --serial`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPlan(cmd, args[0], wide)
		},
	}

	cmd.Flags().BoolVar(&wide, "wide", false, "include failure messages in the table report")
	return cmd
}

func (a *app) runPlan(cmd *cobra.Command, path string, wide bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := plan.Load(path)
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(a.cfg.Defaults.OutputFormat)
	if err != nil {
		return err
	}
	mode, err := executor.ParseMode(a.cfg.Defaults.Mode)
	if err != nil {
		return fmt.Errorf("%w: %w", util.ErrInvalidConfig, err)
	}

	console := report.NewConsoleSink(cmd.ErrOrStderr(), report.ConsoleOptions{
		ShowRetryMessages: !a.cfg.Defaults.HideRetryMessages,
		Symbols:           !a.cfg.Defaults.NoSymbols,
		NoColor:           a.cfg.Defaults.NoColor,
	})
	recorder := report.NewRecorder()

	sink := report.Tee(console, recorder)
	var metricsSink *metrics.Sink
	if a.cfg.Metrics.Textfile != "" {
		metricsSink = metrics.NewSink(sink, p.Name)
		sink = metricsSink
	}

	engine := probe.NewEngine(sink,
		probe.WithMode(mode),
		probe.WithLogger(a.logger))

	clusters := cluster.NewManager(config.NewKubeconfigLoader(a.cfg.Kubeconfig), a.logger, a.clusterOpts...)
	defer clusters.Close()

	builder := &checks.Builder{Clusters: clusters, Logger: a.logger}
	runner := plan.NewRunner(engine, builder.Build,
		plan.WithDefaults(plan.Settings{
			Retries: a.cfg.Defaults.Retries,
			Backoff: a.cfg.Defaults.Backoff,
			Timeout: a.cfg.Defaults.Timeout,
		}),
		plan.WithRunnerLogger(a.logger.With("plan", p.Name)))

	runErr := runner.Run(ctx, p)
	a.shutdown(engine)

	// nothing ran: the plan could not be built
	if runErr != nil && !probe.IsFatal(runErr) && len(recorder.Outcomes()) == 0 {
		return runErr
	}

	console.PrintSummary()

	formatter := report.NewFormatter(format,
		report.WithNoColor(a.cfg.Defaults.NoColor),
		report.WithWide(wide))
	if err := formatter.FormatOutcomes(cmd.OutOrStdout(), recorder.Outcomes()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if metricsSink != nil {
		if err := metricsSink.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			a.logger.Error("failed to write metrics", "file", a.cfg.Metrics.Textfile, "error", err)
		}
	}

	switch {
	case runErr != nil && !probe.IsFatal(runErr):
		return runErr
	case !sink.AllSuccessful() || probe.IsFatal(runErr):
		return fmt.Errorf("%w: %d/%d probes succeeded", util.ErrProbesFailed, sink.SuccessCount(), sink.TotalCount())
	}
	return nil
}

// shutdown stops the engine's worker pool
func (a *app) shutdown(engine *probe.Engine) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := engine.Shutdown(ctx); err != nil {
		a.logger.Warn("worker pool did not drain, stopping it", "error", err)
		if err := engine.ShutdownNow(); err != nil {
			a.logger.Warn("worker pool stopped with pending branches", "error", err)
		}
	}

	if stats, ok := engine.PoolStats(); ok {
		a.logger.Debug("worker pool stopped",
			"mode", stats.Mode.String(),
			"completed", stats.Completed)
	}
}
