package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aryankumar/probectl/internal/probe"
	"github.com/aryankumar/probectl/internal/util"
)

// BuildFunc turns a probe description into the operation that checks it
type BuildFunc func(p Probe) (probe.Operation, error)

// Runner executes plans on a probe engine
type Runner struct {
	engine   *probe.Engine
	build    BuildFunc
	defaults Settings
	logger   *slog.Logger
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithDefaults sets the settings used when neither the probe nor the plan sets them
func WithDefaults(s Settings) RunnerOption {
	return func(r *Runner) {
		r.defaults = s
	}
}

// WithRunnerLogger sets the logger
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner that builds operations with build
func NewRunner(engine *probe.Engine, build BuildFunc, opts ...RunnerOption) *Runner {
	r := &Runner{
		engine: engine,
		build:  build,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// step is one probe or section ready to run
type step func(ctx context.Context) error

// Run executes every probe of the plan
//
// All operations are built before the first probe starts, so an unknown type
// or a bad probe setting fails the run without reporting anything. Sections
// map to engine sections; parallel levels fan out with Engine.Parallel.
// Run returns the first fatal abort, or nil when the run finished without one.
// Whether every probe succeeded is recorded by the engine's sink.
func (r *Runner) Run(ctx context.Context, p *Plan) error {
	if r.engine == nil || r.build == nil {
		return fmt.Errorf("%w: runner needs an engine and a builder", util.ErrInvalidConfig)
	}
	if err := p.Validate(); err != nil {
		return err
	}

	steps, err := r.compileLevel(p, p.Probes, p.Sections)
	if err != nil {
		return err
	}

	start := time.Now()
	r.logger.Info("running plan",
		"plan", p.Name,
		"probes", p.Count(),
		"mode", r.engine.Mode().String())

	err = r.runLevel(ctx, p.Parallel, steps)

	r.logger.Info("plan finished",
		"plan", p.Name,
		"duration", time.Since(start).Round(time.Millisecond),
		"aborted", r.engine.Aborted())
	return err
}

// compileLevel builds the steps of one level: probes first, then subsections
func (r *Runner) compileLevel(p *Plan, probes []Probe, sections []Section) ([]step, error) {
	steps := make([]step, 0, len(probes)+len(sections))

	for _, pr := range probes {
		s, err := r.compileProbe(p, pr)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}

	for _, sec := range sections {
		children, err := r.compileLevel(p, sec.Probes, sec.Sections)
		if err != nil {
			return nil, err
		}
		name, parallel := sec.Name, sec.Parallel
		steps = append(steps, func(ctx context.Context) error {
			return r.engine.Section(ctx, name, func(ctx context.Context) error {
				return r.runLevel(ctx, parallel, children)
			})
		})
	}

	return steps, nil
}

// compileProbe builds the operation of one probe and wraps it in the matching engine call
func (r *Runner) compileProbe(p *Plan, pr Probe) (step, error) {
	op, err := r.build(pr)
	if err != nil {
		return nil, util.WrapProbeError(pr.Name, err)
	}

	settings := pr.Resolve(p.Defaults, r.defaults)
	op = withTimeout(op, settings.Timeout)
	name := pr.Name

	switch {
	case pr.Must:
		return func(ctx context.Context) error {
			return r.engine.Must(ctx, name, op)
		}, nil
	case pr.Optional:
		return func(ctx context.Context) error {
			return r.engine.Try(ctx, name, settings.Retries, settings.Backoff, op)
		}, nil
	default:
		return func(ctx context.Context) error {
			return r.engine.Retry(ctx, name, settings.Retries, settings.Backoff, op)
		}, nil
	}
}

// runLevel runs the steps of one level in order, or as a parallel group
func (r *Runner) runLevel(ctx context.Context, parallel bool, steps []step) error {
	if parallel {
		branches := make([]func(ctx context.Context) error, len(steps))
		for i, s := range steps {
			branches[i] = s
		}
		return r.engine.Parallel(ctx, branches...).Wait(ctx)
	}

	for _, s := range steps {
		if err := s(ctx); err != nil {
			return err
		}
	}
	return nil
}

// withTimeout bounds every attempt of op; zero means no limit
func withTimeout(op probe.Operation, timeout time.Duration) probe.Operation {
	if timeout <= 0 {
		return op
	}
	return func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		err := op(attemptCtx)
		if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s: %w", util.ErrTimeout, timeout, err)
		}
		return err
	}
}
