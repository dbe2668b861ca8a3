package probe

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aryankumar/probectl/internal/executor"
)

// Engine runs probes and publishes their results to a Sink
//
// An engine owns the set of completed probe names, the worker pool used by
// Parallel and the record of the first fatal abort. It is safe for use by
// multiple goroutines.
type Engine struct {
	sink   Sink
	mode   executor.Mode
	logger *slog.Logger
	now    func() time.Time

	// mu serializes reports: the completed-set check-and-insert and the
	// publish to the sink happen under it
	mu        sync.Mutex
	completed map[string]struct{}

	// fatal is the first fatal abort observed, guarded by fatalMu
	fatalMu sync.RWMutex
	fatal   error

	// poolMu guards lazy construction of pool
	poolMu sync.Mutex
	pool   *executor.Pool
}

// Option configures an Engine
type Option func(*Engine)

// WithMode selects the worker pool mode used by Parallel
func WithMode(mode executor.Mode) Option {
	return func(e *Engine) {
		e.mode = mode
	}
}

// WithSerial is shorthand for WithMode(executor.ModeSerial) when serial is true
func WithSerial(serial bool) Option {
	return func(e *Engine) {
		if serial {
			e.mode = executor.ModeSerial
		} else {
			e.mode = executor.ModeParallel
		}
	}
}

// WithLogger sets the logger used for engine diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source stamped on results
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an engine publishing to sink
// A nil sink discards results
func NewEngine(sink Sink, opts ...Option) *Engine {
	if sink == nil {
		sink = Discard
	}

	e := &Engine{
		sink:      sink,
		mode:      executor.ModeParallel,
		logger:    slog.Default(),
		now:       time.Now,
		completed: make(map[string]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Sink returns the sink results are published to
func (e *Engine) Sink() Sink {
	return e.sink
}

// Mode returns the worker pool mode chosen at construction
func (e *Engine) Mode() executor.Mode {
	return e.mode
}

// Section runs fn with name opened as the innermost section
// The error returned by fn is passed through unchanged
func (e *Engine) Section(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(withSection(ctx, name))
}

// ReportStarted publishes a STARTED result for the current probe
func (e *Engine) ReportStarted(ctx context.Context) error {
	return e.report(ctx, StatusStarted, "", 0)
}

// ReportOK publishes an OK result for the current probe
func (e *Engine) ReportOK(ctx context.Context, retries int) error {
	return e.report(ctx, StatusOK, "", retries)
}

// ReportRetry publishes a RETRY result for the current probe
func (e *Engine) ReportRetry(ctx context.Context, message string, retries int) error {
	return e.report(ctx, StatusRetry, message, retries)
}

// ReportError publishes a non-fatal ERROR result for the current probe
func (e *Engine) ReportError(ctx context.Context, message string) error {
	return e.report(ctx, StatusError, message, 0)
}

// ReportFatal publishes a FATAL result for the current probe and returns the
// abort signal the caller must propagate
func (e *Engine) ReportFatal(ctx context.Context, message string, retries int) error {
	if err := e.report(ctx, StatusFatal, message, retries); err != nil {
		return err
	}
	return e.abort(&FatalError{Name: NameFrom(ctx), Message: message, Retries: retries})
}

// Aborted reports whether a fatal abort has been observed
func (e *Engine) Aborted() bool {
	return e.Err() != nil
}

// Err returns the first fatal abort observed by the engine, if any
func (e *Engine) Err() error {
	e.fatalMu.RLock()
	defer e.fatalMu.RUnlock()
	return e.fatal
}

// Completed reports whether name has reached a terminal result
func (e *Engine) Completed(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, done := e.completed[name]
	return done
}

// report publishes one result for the probe named by ctx
// It returns a fatal abort when the report itself is invalid
func (e *Engine) report(ctx context.Context, status Status, message string, retries int) error {
	name := NameFrom(ctx)
	if name == "" {
		return e.usageError(unnamedProbe, fmt.Sprintf("%s reported outside of any section", status))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.publishLocked(Result{
		Name:    name,
		Message: message,
		Status:  status,
		Retries: retries,
	}, 0)
}

const unnamedProbe = "<unnamed probe>"

// publishLocked checks result against the completed set and publishes it
// e.mu must be held. depth bounds the nesting of duplicate diagnostics.
func (e *Engine) publishLocked(result Result, depth int) error {
	if _, done := e.completed[result.Name]; done {
		if depth > 0 {
			return e.abort(&FatalError{Name: result.Name, Message: result.Message, Retries: result.Retries})
		}

		diagnostic := fmt.Sprintf("<section '%s' is already completed>", result.Name)
		message := fmt.Sprintf("rejected %s report for completed probe %q", result.Status, result.Name)
		e.logger.Error("duplicate probe report",
			"probe", result.Name,
			"status", result.Status.String())

		if err := e.publishLocked(Result{
			Name:    diagnostic,
			Message: message,
			Status:  StatusFatal,
		}, depth+1); err != nil {
			return err
		}
		return e.abort(&FatalError{Name: diagnostic, Message: message})
	}

	if result.Status.Terminal() {
		e.completed[result.Name] = struct{}{}
	}

	result.Time = e.now()
	e.logger.Debug("probe result",
		"probe", result.Name,
		"status", result.Status.String(),
		"retries", result.Retries)
	e.sink.Publish(result)
	return nil
}

// usageError reports a misuse of the engine as a fatal result under a
// synthesized name
func (e *Engine) usageError(name, message string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.publishLocked(Result{Name: name, Message: message, Status: StatusFatal}, 0); err != nil {
		return err
	}
	return e.abort(&FatalError{Name: name, Message: message})
}

// abort records err as the engine's first fatal abort if none was seen yet
// and returns err
func (e *Engine) abort(err error) error {
	e.fatalMu.Lock()
	defer e.fatalMu.Unlock()
	if e.fatal == nil {
		e.fatal = err
		e.logger.Warn("orchestration aborted", "error", err)
	}
	return err
}

// skipped returns a SkippedError when the engine has aborted
func (e *Engine) skipped(name string) error {
	if cause := e.Err(); cause != nil {
		return &SkippedError{Name: name, Cause: cause}
	}
	return nil
}
