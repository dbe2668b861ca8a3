// Package executor provides the worker pool that runs the branches of
// parallel probe groups.
//
// A pool runs in one of two modes chosen at construction:
//
//   - ModeParallel starts a goroutine for every submitted task
//   - ModeSerial runs tasks one at a time, in submission order, on a single worker
//
// # Basic Usage
//
//	pool := executor.NewPool(executor.ModeParallel, logger)
//
//	err := pool.Submit(executor.Task{
//	    Name: "network[0]",
//	    Run: func(ctx context.Context) {
//	        // ctx is cancelled by ShutdownNow
//	    },
//	    Abandon: func(err error) {
//	        // called instead of Run when the pool stops first
//	    },
//	})
//
// # Shutdown
//
// Shutdown stops accepting tasks and waits for the accepted ones, bounded by
// its context:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//	if err := pool.Shutdown(ctx); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
//
// ShutdownNow cancels the context handed to running tasks and abandons the
// queued ones. It returns a *PendingTasksError when anything was abandoned.
//
// # Nested Submission
//
// A serial pool cannot run a task submitted from its own worker until the
// current task returns. Tasks receive a context marked with WithWorker, so
// callers can detect this case with OnWorker and run the work inline instead
// of waiting on it.
//
// # Thread Safety
//
// All pool operations are safe for concurrent use.
package executor
