package probe_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aryankumar/probectl/internal/probe"
)

// printSink prints every result as it is published
type printSink struct {
	total, success int
}

func (s *printSink) Publish(r probe.Result) {
	if r.Status.Terminal() {
		s.total++
		if r.Status == probe.StatusOK {
			s.success++
		}
	}
	fmt.Printf("%s %s retries=%d\n", r.Status, r.Name, r.Retries)
}

func (s *printSink) AllSuccessful() bool { return s.success == s.total }
func (s *printSink) SuccessCount() int   { return s.success }
func (s *printSink) TotalCount() int     { return s.total }

func ExampleEngine_Retry() {
	engine := probe.NewEngine(&printSink{})
	ctx := context.Background()

	attempts := 0
	err := engine.Section(ctx, "storage", func(ctx context.Context) error {
		return engine.Retry(ctx, "check-disk", 2, time.Millisecond, func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("not mounted")
			}
			return nil
		})
	})
	fmt.Println("error:", err)

	// Output:
	// RETRY storage :: check-disk retries=0
	// RETRY storage :: check-disk retries=1
	// OK storage :: check-disk retries=2
	// error: <nil>
}

func ExampleEngine_Must() {
	engine := probe.NewEngine(&printSink{})

	err := engine.Must(context.Background(), "check-dns", func(ctx context.Context) error {
		return errors.New("timeout")
	})
	fmt.Println("fatal:", probe.IsFatal(err))

	// Output:
	// FATAL check-dns retries=0
	// fatal: true
}

func ExampleEngine_Parallel() {
	engine := probe.NewEngine(&printSink{}, probe.WithSerial(true))
	defer engine.ShutdownNow()
	ctx := context.Background()

	future := engine.Parallel(ctx,
		func(ctx context.Context) error {
			return engine.Must(ctx, "db", func(ctx context.Context) error { return nil })
		},
		func(ctx context.Context) error {
			return engine.Must(ctx, "cache", func(ctx context.Context) error { return nil })
		},
	)
	fmt.Println("error:", future.Wait(ctx))

	// Output:
	// OK db retries=0
	// OK cache retries=0
	// error: <nil>
}
