package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aryankumar/probectl/internal/cluster"
	"github.com/aryankumar/probectl/internal/config"
	"github.com/aryankumar/probectl/pkg/version"
)

// app holds the state shared by the subcommands of one invocation
type app struct {
	cfgFile  string
	envFiles []string
	serial   bool
	verbose  bool

	manager *config.Manager
	cfg     *config.Config
	logger  *slog.Logger
	runID   string

	// clusterOpts are passed to every cluster.Manager the commands create
	clusterOpts []cluster.ManagerOption
}

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "probectl",
		Short: "probectl - run named health probes with retries",
		Long: `probectl runs plans of named probes against HTTP endpoints, TCP ports,
DNS names, databases, caches and Kubernetes clusters.

Probes are grouped into sections, retried with a fixed backoff and reported
as they run. A probe that fails fatally aborts the rest of the plan.`,
		Version:       version.Get().Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.probectl.yaml)")
	flags.StringSliceVar(&a.envFiles, "env-file", nil, "load environment variables from these files before reading the plan")
	flags.String("kubeconfig", "", "path to kubeconfig file (default is $HOME/.kube/config)")
	flags.StringP("output", "o", config.DefaultOutput, "report format (table, json, yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output with debug logging")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("no-symbols", false, "do not print status symbols")
	flags.Bool("hide-retry-messages", false, "do not print failure details of retried attempts")
	flags.BoolVar(&a.serial, "serial", false, "run parallel sections one branch at a time")
	flags.Int("retries", config.DefaultRetries, "default retries of probes that do not set any")
	flags.Duration("backoff", config.DefaultBackoff, "default delay between attempts")
	flags.Duration("timeout", config.DefaultTimeout, "default timeout of a single probe attempt")
	flags.String("metrics-file", "", "write Prometheus metrics to this textfile after a run")
	flags.String("log-format", config.DefaultLog, "diagnostic log format (text, json)")

	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newValidateCmd(a))
	rootCmd.AddCommand(newContextsCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// flagBindings maps persistent flags to configuration keys
var flagBindings = map[string]string{
	"kubeconfig":          "kubeconfig",
	"output":              "defaults.outputFormat",
	"no-color":            "defaults.noColor",
	"no-symbols":          "defaults.noSymbols",
	"hide-retry-messages": "defaults.hideRetryMessages",
	"retries":             "defaults.retries",
	"backoff":             "defaults.backoff",
	"timeout":             "defaults.timeout",
	"metrics-file":        "metrics.textfile",
	"log-format":          "log.format",
}

// initConfig loads env files and configuration, then sets up logging
func (a *app) initConfig(cmd *cobra.Command) error {
	if err := config.LoadEnvFiles(a.envFiles...); err != nil {
		return err
	}

	a.manager = config.NewManager(a.cfgFile)
	v := a.manager.Viper()
	for flag, key := range flagBindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	cfg, err := a.manager.Load()
	if err != nil {
		return err
	}
	if a.serial {
		cfg.Defaults.Mode = "serial"
	}
	a.cfg = cfg

	a.setupLogging(cmd.ErrOrStderr())
	return nil
}

// setupLogging configures structured logging with slog
// Every record carries the run_id of this invocation.
func (a *app) setupLogging(w io.Writer) {
	logLevel := slog.LevelWarn
	if a.verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if strings.EqualFold(a.cfg.Log.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	a.runID = uuid.NewString()
	a.logger = slog.New(handler).With("run_id", a.runID)
	slog.SetDefault(a.logger)

	if a.verbose {
		a.logger.Debug("verbose logging enabled")
		if used := a.manager.ConfigFileUsed(); used != "" {
			a.logger.Debug("loaded configuration", "file", used)
		}
	}
}
