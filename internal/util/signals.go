package util

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// exitInterrupted matches the shell convention for SIGINT
const exitInterrupted = 130

// SetupSignalHandler returns a context cancelled by the first SIGINT or SIGTERM.
// Running probes see the cancellation and backoffs are cut short. A second
// signal exits immediately.
func SetupSignalHandler() context.Context {
	return notifyContext(func() { os.Exit(exitInterrupted) }, syscall.SIGINT, syscall.SIGTERM)
}

func notifyContext(force func(), signals ...os.Signal) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, signals...)

	go func() {
		sig := <-sigCh
		slog.Warn("interrupted, stopping probes", "signal", sig.String())
		cancel()

		sig = <-sigCh
		slog.Warn("interrupted again, exiting", "signal", sig.String())
		signal.Stop(sigCh)
		force()
	}()

	return ctx
}
