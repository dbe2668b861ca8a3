package probe

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Operation is the body of a probe
// A nil error is success; any other error is a failure of the attempt.
type Operation func(ctx context.Context) error

// Describe adapts a check that returns a failure description, or the empty
// string on success, into an Operation
func Describe(check func(ctx context.Context) string) Operation {
	if check == nil {
		return nil
	}
	return func(ctx context.Context) error {
		if desc := check(ctx); desc != "" {
			return errors.New(desc)
		}
		return nil
	}
}

// Retry runs op as the probe name, retrying failures up to maxRetries times
// with a fixed backoff between attempts
//
// Success reports OK. A failure with retries left reports RETRY and sleeps;
// the last failure reports FATAL and returns the abort. Fatal aborts raised
// inside op are returned unchanged. An interrupted backoff returns an
// InterruptedError without reporting.
func (e *Engine) Retry(ctx context.Context, name string, maxRetries int, backoff time.Duration, op Operation) error {
	return e.loop(ctx, name, maxRetries, backoff, op, StatusFatal)
}

// Must runs op once as the probe name; any failure is fatal
func (e *Engine) Must(ctx context.Context, name string, op Operation) error {
	return e.Retry(ctx, name, 0, 0, op)
}

// Try is Retry with a non-fatal ending: when the retries are exhausted it
// reports ERROR and returns nil, so sibling and later probes keep running
func (e *Engine) Try(ctx context.Context, name string, maxRetries int, backoff time.Duration, op Operation) error {
	return e.loop(ctx, name, maxRetries, backoff, op, StatusError)
}

// loop is the retry state machine shared by Retry and Try
func (e *Engine) loop(ctx context.Context, name string, maxRetries int, backoff time.Duration, op Operation, exhausted Status) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if backoff < 0 {
		backoff = 0
	}

	return e.Section(ctx, name, func(ctx context.Context) error {
		qualified := NameFrom(ctx)
		if err := e.skipped(qualified); err != nil {
			return err
		}
		if op == nil {
			return e.ReportFatal(ctx, "<probe has no operation>", 0)
		}

		retries := 0
		for {
			err := attempt(ctx, op)
			if err == nil {
				return e.ReportOK(ctx, retries)
			}
			if IsFatal(err) {
				return err
			}

			if retries >= maxRetries {
				if exhausted == StatusError {
					return e.report(ctx, StatusError, failureDetail(err), retries)
				}
				return e.ReportFatal(ctx, failureDetail(err), retries)
			}

			if rerr := e.ReportRetry(ctx, err.Error(), retries); rerr != nil {
				return rerr
			}

			e.logger.Debug("probe backing off",
				"probe", qualified,
				"retries", retries,
				"backoff", backoff)
			if serr := sleep(ctx, backoff); serr != nil {
				return &InterruptedError{Name: qualified, Err: serr}
			}
			retries++
		}
	})
}

// panicError carries a recovered panic and the stack it was raised on
type panicError struct {
	value interface{}
	stack []byte
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}

// attempt runs op once, turning a panic into a failure
func attempt(ctx context.Context, op Operation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r, stack: debug.Stack()}
		}
	}()
	return op(ctx)
}

// failureDetail renders everything known about a failure for a fatal report:
// the error with any stack trace it carries, its type, and the panic stack
func failureDetail(err error) string {
	var p *panicError
	if errors.As(err, &p) {
		return fmt.Sprintf("%s\n%s", p.Error(), strings.TrimRight(string(p.stack), "\n"))
	}

	detail := fmt.Sprintf("%+v", err)
	typeName := fmt.Sprintf("%T", err)
	if strings.HasPrefix(typeName, "*errors.") || strings.HasPrefix(typeName, "*fmt.") {
		return detail
	}
	return fmt.Sprintf("%s (%s)", detail, typeName)
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
