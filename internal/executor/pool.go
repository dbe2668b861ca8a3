package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Mode selects how a pool runs submitted tasks
// It is fixed for the lifetime of the pool
type Mode int

const (
	// ModeParallel runs every task on its own goroutine as soon as it is submitted
	ModeParallel Mode = iota
	// ModeSerial runs tasks one at a time on a single worker, in submission order
	ModeSerial
)

// String returns the flag spelling of the mode
func (m Mode) String() string {
	switch m {
	case ModeParallel:
		return "parallel"
	case ModeSerial:
		return "serial"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a flag or config value into a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "parallel":
		return ModeParallel, nil
	case "serial":
		return ModeSerial, nil
	default:
		return ModeParallel, fmt.Errorf("unknown execution mode %q (want parallel or serial)", s)
	}
}

// ErrPoolShutdown is handed to tasks that were abandoned by a shutdown
var ErrPoolShutdown = errors.New("pool is shut down")

// PendingTasksError reports tasks that were still queued when the pool was stopped
type PendingTasksError struct {
	Count int
}

// Error implements the error interface
func (e *PendingTasksError) Error() string {
	return fmt.Sprintf("%d tasks are pending", e.Count)
}

// Unwrap lets callers match the error against ErrPoolShutdown
func (e *PendingTasksError) Unwrap() error {
	return ErrPoolShutdown
}

// Task represents a unit of work dispatched to the pool
type Task struct {
	// Name identifies the task in logs
	Name string

	// Run is the function to execute
	// The context is cancelled when the pool is stopped with ShutdownNow
	Run func(ctx context.Context)

	// Abandon is called instead of Run if the pool stops before the task started
	Abandon func(err error)
}

// Stats is a point-in-time view of the pool
type Stats struct {
	Mode      Mode
	Pending   int
	Running   int
	Completed int64
	Shutdown  bool
}

// Pool dispatches tasks either concurrently or on a single worker
type Pool struct {
	// mode is fixed at construction
	mode Mode

	// ctx is cancelled by ShutdownNow and passed to every running task
	ctx    context.Context
	cancel context.CancelFunc

	// mu protects queue and closed, cond signals the serial worker
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Task
	closed bool

	// inflight tracks tasks that have been accepted but not finished
	inflight sync.WaitGroup

	// workerDone is closed when the serial worker exits
	workerDone chan struct{}

	logger *slog.Logger

	shutdown  atomic.Bool
	running   atomic.Int32
	completed atomic.Int64
}

// NewPool creates a pool in the given mode
// Serial pools start their single worker immediately
func NewPool(mode Mode, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		mode:       mode,
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
		workerDone: make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)

	if mode == ModeSerial {
		go p.worker()
	} else {
		close(p.workerDone)
	}

	logger.Debug("worker pool created", "mode", mode.String())
	return p
}

// Submit hands a task to the pool
// Returns an error if the pool is shutting down
func (p *Pool) Submit(task Task) error {
	if task.Run == nil {
		return fmt.Errorf("task must have a run function")
	}

	p.mu.Lock()
	if p.closed || p.shutdown.Load() {
		p.mu.Unlock()
		return fmt.Errorf("cannot submit task %q: %w", task.Name, ErrPoolShutdown)
	}
	p.inflight.Add(1)

	if p.mode == ModeSerial {
		p.queue = append(p.queue, task)
		pending := len(p.queue)
		p.cond.Signal()
		p.mu.Unlock()
		p.logger.Debug("task queued", "task", task.Name, "pending", pending)
		return nil
	}
	p.mu.Unlock()

	go p.execute(task)
	return nil
}

// worker drains the queue of a serial pool
func (p *Pool) worker() {
	defer close(p.workerDone)

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			p.logger.Debug("worker finished (pool closed)")
			return
		}
		task := p.queue[0]
		p.queue[0] = Task{}
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.execute(task)
	}
}

// execute runs a single task and keeps the counters current
func (p *Pool) execute(task Task) {
	defer p.inflight.Done()

	p.running.Add(1)
	defer p.running.Add(-1)

	start := time.Now()
	p.logger.Debug("executing task", "task", task.Name)

	task.Run(WithWorker(p.ctx, p))

	p.completed.Add(1)
	p.logger.Debug("task finished", "task", task.Name, "duration", time.Since(start))
}

// ShutdownNow stops the pool immediately
// Running tasks see their context cancelled, queued tasks are abandoned
// It fails with a PendingTasksError if any task had not started yet
func (p *Pool) ShutdownNow() error {
	if !p.shutdown.CompareAndSwap(false, true) {
		return fmt.Errorf("pool already shut down")
	}

	p.logger.Info("stopping worker pool", "mode", p.mode.String())
	p.cancel()

	p.mu.Lock()
	pending := p.queue
	p.queue = nil
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	for _, task := range pending {
		p.logger.Warn("abandoning pending task", "task", task.Name)
		if task.Abandon != nil {
			task.Abandon(ErrPoolShutdown)
		}
		p.inflight.Done()
	}

	if len(pending) > 0 {
		return &PendingTasksError{Count: len(pending)}
	}
	return nil
}

// Shutdown stops accepting tasks and waits for queued and running ones to finish
// The context bounds the wait; on expiry the remaining work is stopped with ShutdownNow
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("pool already shut down")
	}
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	p.logger.Info("shutting down worker pool")

	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.shutdown.Store(true)
		p.cancel()
		<-p.workerDone
		p.logger.Info("worker pool shut down successfully")
		return nil
	case <-ctx.Done():
		err := p.ShutdownNow()
		return fmt.Errorf("shutdown timeout: %w", errors.Join(ctx.Err(), err))
	}
}

// Mode returns the pool's execution mode
func (p *Pool) Mode() Mode {
	return p.mode
}

// IsShutdown returns true if the pool has been shut down
func (p *Pool) IsShutdown() bool {
	return p.shutdown.Load()
}

// Stats returns a snapshot of the pool counters
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	pending := len(p.queue)
	p.mu.Unlock()

	return Stats{
		Mode:      p.mode,
		Pending:   pending,
		Running:   int(p.running.Load()),
		Completed: p.completed.Load(),
		Shutdown:  p.shutdown.Load(),
	}
}

type workerKey struct{}

// WithWorker marks ctx as running on one of p's workers
func WithWorker(ctx context.Context, p *Pool) context.Context {
	return context.WithValue(ctx, workerKey{}, p)
}

// OnWorker reports whether ctx was handed out by one of p's workers
func OnWorker(ctx context.Context, p *Pool) bool {
	owner, _ := ctx.Value(workerKey{}).(*Pool)
	return owner != nil && owner == p
}
