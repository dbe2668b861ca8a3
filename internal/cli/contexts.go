package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aryankumar/probectl/internal/cluster"
	"github.com/aryankumar/probectl/internal/config"
	"github.com/aryankumar/probectl/internal/report"
)

func newContextsCmd(a *app) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "contexts",
		Short: "List the kubeconfig contexts kubernetes probes can target",
		Long: `List every context of the kubeconfig used by kube-api, kube-nodes and
kube-rollout probes. A probe without a context uses the one marked current.

With --check the API server of every context is asked for its version.`,
		Aliases: []string{"ctx"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listContexts(cmd, check)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "check that the API server of every context answers")
	return cmd
}

func (a *app) listContexts(cmd *cobra.Command, check bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	loader := config.NewKubeconfigLoader(a.cfg.Kubeconfig)
	a.logger.Debug("loading kubeconfig", "paths", strings.Join(loader.Paths(), ", "))

	names, err := loader.Contexts()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No contexts found in kubeconfig")
		return nil
	}
	current, _ := loader.CurrentContext()

	var health map[string]*cluster.HealthStatus
	if check {
		clusters := cluster.NewManager(loader, a.logger, a.clusterOpts...)
		defer clusters.Close()
		health = clusters.HealthCheck(ctx, names)
	}

	rows := make([]map[string]interface{}, 0, len(names))
	unhealthy := 0
	for _, name := range names {
		row := map[string]interface{}{
			"context": name,
			"current": name == current,
		}
		if check {
			status := health[name]
			row["healthy"] = status.Healthy
			row["version"] = status.ServerVersion
			row["latency"] = status.Latency.Round(time.Millisecond).String()
			row["error"] = status.Message()
			if !status.Healthy {
				unhealthy++
			}
		}
		rows = append(rows, row)
	}

	format, err := report.ParseFormat(a.cfg.Defaults.OutputFormat)
	if err != nil {
		return err
	}
	formatter := report.NewFormatter(format, report.WithNoColor(a.cfg.Defaults.NoColor))
	if err := formatter.Format(cmd.OutOrStdout(), rows); err != nil {
		return fmt.Errorf("failed to write contexts: %w", err)
	}

	if unhealthy > 0 {
		return fmt.Errorf("%d/%d contexts did not answer", unhealthy, len(names))
	}
	return nil
}
