package report

import (
	"context"
	"time"

	"github.com/aryankumar/probectl/internal/probe"
)

func bgCtx() context.Context { return context.Background() }

func okOp(ctx context.Context) error { return nil }

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleOutcomes() []Outcome {
	return []Outcome{
		{Name: "network :: dns", Status: probe.StatusOK, Started: epoch, Finished: epoch.Add(20 * time.Millisecond)},
		{Name: "network :: api", Status: probe.StatusOK, Retries: 2, Started: epoch, Finished: epoch.Add(2 * time.Second)},
		{Name: "db :: ping", Status: probe.StatusFatal, Retries: 1, Message: "connection refused\nstack", Started: epoch, Finished: epoch.Add(time.Second)},
		{Name: "cache", Status: probe.StatusError, Message: "timeout", Started: epoch, Finished: epoch.Add(100 * time.Millisecond)},
	}
}
