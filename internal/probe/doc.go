// Package probe provides the engine that runs named probes: short diagnostic
// or health-check operations with hierarchical names, fixed-delay retries,
// parallel groups and a reporting sink.
//
// # Key Features
//
//   - Hierarchical probe names built from nested sections ("a :: b")
//   - Retry loop with a fixed backoff and RETRY/OK/FATAL reporting
//   - At-most-once terminal outcome per probe name
//   - Fatal aborts that unwind sections and parallel groups unchanged
//   - Parallel groups on a lazily created worker pool (parallel or serial)
//
// # Basic Usage
//
//	engine := probe.NewEngine(sink, probe.WithSerial(false))
//	defer engine.ShutdownNow()
//
//	err := engine.Section(ctx, "network", func(ctx context.Context) error {
//	    return engine.Retry(ctx, "check-dns", 3, time.Second, func(ctx context.Context) error {
//	        _, err := net.DefaultResolver.LookupHost(ctx, "example.com")
//	        return err
//	    })
//	})
//	if probe.IsFatal(err) {
//	    // the orchestration was aborted
//	}
//
// # Naming
//
// The current section path travels in the context. Section derives a child
// context with one more name; returning from the section function is the
// matching pop. Branches started by Parallel receive the caller's context and
// therefore a copy of its path.
//
// # Reporting
//
// Each report builds a Result and publishes it to the Sink before returning.
// OK, ERROR and FATAL complete a probe name. Reporting anything for a
// completed name is a usage error: the engine publishes a FATAL result under
// a synthesized "<section '...' is already completed>" name and returns the
// abort.
//
// # Fatal Aborts
//
// A FATAL report returns a *FatalError which matches ErrFatal. Every layer of
// the engine passes it through untouched. Once an engine has observed an
// abort, Retry, Must, Try and Parallel branches that have not started yet
// return a *SkippedError wrapping the first abort.
//
// # Parallel Groups
//
//	future := engine.Parallel(ctx,
//	    func(ctx context.Context) error { return engine.Must(ctx, "db", pingDB) },
//	    func(ctx context.Context) error { return engine.Must(ctx, "cache", pingCache) },
//	)
//	if err := future.Wait(ctx); err != nil {
//	    // fatal abort, or *OrchestrationError for other branch failures
//	}
//
// # Thread Safety
//
// Engines are safe for concurrent use. Reports are serialized by the engine,
// so a Sink is never called concurrently by one engine.
package probe
