// Package trialbench runs many independent, possibly non-deterministic
// trials of a test scenario under a concurrency cap and reduces the raw
// outcomes into pass/fail counts and latency percentile statistics.
//
// The trial body is opaque to the engine: anything that fulfils the
// TrialFunc contract can be benchmarked, from an in-process function to
// an HTTP probe against a remote agent. Each trial is wrapped in a
// per-attempt timeout and an exponential-backoff retry policy, and the
// whole run is throttled by a FIFO-fair counting semaphore.
//
// Typical usage:
//
//	h := trialbench.New()
//	agg, err := h.Run(ctx, myTrial, trialbench.RunOptions{
//		Iterations:  50,
//		Concurrency: 5,
//		Retries:     2,
//	})
//
// Individual trial failures never escape Run; they are recorded in the
// per-iteration details and reflected in the success/failure counts.
// Only structural misuse (malformed options, querying metrics before
// any run) surfaces as an error.
package trialbench
