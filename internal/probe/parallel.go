package probe

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/aryankumar/probectl/internal/executor"
	"github.com/aryankumar/probectl/internal/util"
)

// Future is the handle of a group of branches started by Parallel
type Future struct {
	done chan struct{}

	mu        sync.Mutex
	remaining int
	fatal     []error
	failures  util.MultiError
	err       error
}

func newFuture(branches int) *Future {
	f := &Future{
		done:      make(chan struct{}),
		remaining: branches,
	}
	if branches == 0 {
		close(f.done)
	}
	return f
}

// record stores the outcome of one branch and settles the future after the last one
func (f *Future) record(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case err == nil:
	case IsFatal(err):
		f.fatal = append(f.fatal, err)
	default:
		f.failures.Add(err)
	}

	f.remaining--
	if f.remaining == 0 {
		f.err = f.settle()
		close(f.done)
	}
}

// firstFatal returns the first fatal abort recorded by a branch of this group
func (f *Future) firstFatal() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.fatal) == 0 {
		return nil
	}
	return f.fatal[0]
}

// settle computes the group outcome; f.mu must be held
func (f *Future) settle() error {
	if len(f.fatal) > 0 {
		for _, err := range f.fatal {
			if !IsSkipped(err) {
				return err
			}
		}
		// every fatal was a skip: surface the abort that caused them
		if skipped, ok := f.fatal[0].(*SkippedError); ok && skipped.Cause != nil {
			return skipped.Cause
		}
		return f.fatal[0]
	}
	if f.failures.Len() > 0 {
		return &OrchestrationError{Err: &f.failures}
	}
	return nil
}

// Done returns a channel closed once every branch has finished
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until every branch has finished or ctx is done
//
// It returns nil when all branches succeeded, the first fatal abort when any
// branch aborted, and an OrchestrationError for any other branch failure.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
	case <-ctx.Done():
		// a settled group reports its outcome even when ctx is done too
		select {
		case <-f.done:
		default:
			return &InterruptedError{Err: ctx.Err()}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Parallel dispatches each branch onto the engine's worker pool and returns
// a Future for the group
//
// Every branch receives a context carrying the caller's section path. A
// branch that has not started by the time the group or the engine has
// aborted is skipped. On a serial engine, Parallel called from a pool worker
// runs the branches inline, one after the other.
func (e *Engine) Parallel(ctx context.Context, branches ...func(ctx context.Context) error) *Future {
	f := newFuture(len(branches))
	if len(branches) == 0 {
		return f
	}

	pool := e.workerPool()
	if e.mode == executor.ModeSerial && executor.OnWorker(ctx, pool) {
		e.logger.Debug("running nested parallel group inline",
			"section", NameFrom(ctx),
			"branches", len(branches))
		for _, branch := range branches {
			f.record(e.runBranch(ctx, f, branch))
		}
		return f
	}

	for i, branch := range branches {
		branch := branch
		task := executor.Task{
			Name: fmt.Sprintf("%s[%d]", sectionLabel(ctx), i),
			Run: func(poolCtx context.Context) {
				bctx, cancel := context.WithCancel(ctx)
				stop := context.AfterFunc(poolCtx, cancel)
				defer stop()
				defer cancel()

				f.record(e.runBranch(executor.WithWorker(bctx, pool), f, branch))
			},
			Abandon: func(err error) {
				f.record(util.WrapErrorf(err, "branch of %q abandoned", sectionLabel(ctx)))
			},
		}

		if err := pool.Submit(task); err != nil {
			f.record(err)
		}
	}

	return f
}

// runBranch runs one branch unless the orchestration already aborted
func (e *Engine) runBranch(ctx context.Context, f *Future, branch func(ctx context.Context) error) (err error) {
	if branch == nil {
		return nil
	}
	if cause := e.Err(); cause != nil {
		return &SkippedError{Name: NameFrom(ctx), Cause: cause}
	}
	if cause := f.firstFatal(); cause != nil {
		return &SkippedError{Name: NameFrom(ctx), Cause: cause}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("branch of %q panicked: %v\n%s", sectionLabel(ctx), r, debug.Stack())
		}
	}()
	return branch(ctx)
}

// workerPool returns the engine's pool, creating it on first use
func (e *Engine) workerPool() *executor.Pool {
	e.poolMu.Lock()
	defer e.poolMu.Unlock()

	if e.pool == nil {
		e.pool = executor.NewPool(e.mode, e.logger)
	}
	return e.pool
}

// ShutdownNow stops the worker pool immediately
// It fails if any dispatched branch had not started yet; those branches are
// reported to their Future as abandoned. It is a no-op if Parallel was never used.
func (e *Engine) ShutdownNow() error {
	e.poolMu.Lock()
	pool := e.pool
	e.poolMu.Unlock()

	if pool == nil {
		return nil
	}
	return pool.ShutdownNow()
}

// Shutdown waits for dispatched branches to finish, then stops the pool
func (e *Engine) Shutdown(ctx context.Context) error {
	e.poolMu.Lock()
	pool := e.pool
	e.poolMu.Unlock()

	if pool == nil {
		return nil
	}
	return pool.Shutdown(ctx)
}

// PoolStats returns the worker pool counters; ok is false before first use
func (e *Engine) PoolStats() (stats executor.Stats, ok bool) {
	e.poolMu.Lock()
	pool := e.pool
	e.poolMu.Unlock()

	if pool == nil {
		return executor.Stats{}, false
	}
	return pool.Stats(), true
}

func sectionLabel(ctx context.Context) string {
	if name := NameFrom(ctx); name != "" {
		return name
	}
	return "<root>"
}
