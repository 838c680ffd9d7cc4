package trialbench

import (
	"context"
	"time"
)

// Defaults applied by RunOptions validation.
const (
	DefaultConcurrency = 5
	DefaultTimeout     = 30 * time.Second
)

// TrialFunc is one attempt of the scenario under test. The engine calls
// it once per attempt, including retries, so implementations must carry
// no state between calls. The context is cancelled when the attempt's
// timeout fires; cooperative implementations should honor it, but the
// engine does not force-cancel work that ignores it.
type TrialFunc func(ctx context.Context) (TrialOutcome, error)

// TrialOutcome is the contract a trial body fulfils when an attempt
// resolves. A resolved outcome with Passed == false is a completed
// trial that failed its check; it is not retried. Returning an error
// from the TrialFunc is what triggers a retry.
type TrialOutcome struct {
	Passed        bool
	Measurements  []Measurement
	ResourceUsage ResourceUsage
	Err           string
}

// Measurement is one named latency sample for a trial attempt, e.g. the
// end-to-end time plus zero or more named sub-phases.
type Measurement struct {
	Dimension string
	Latency   time.Duration
}

// ResourceUsage is a countable per-trial consumption metric (e.g.
// tokens or response bytes), with an optional named breakdown.
type ResourceUsage struct {
	Total      int
	Components map[string]int
}

// IterationResult records the terminal state of one trial: either its
// resolved outcome, or the last error after retry exhaustion.
type IterationResult struct {
	ID            string
	Index         int
	Passed        bool
	Measurements  []Measurement
	ResourceUsage ResourceUsage
	Error         string
	RetryCount    int
}

// RunOptions controls one run. Zero values for Concurrency and Timeout
// mean "use the default"; negative values are rejected.
type RunOptions struct {
	// Iterations is the number of independent trials to execute.
	Iterations int

	// Concurrency caps how many trials are in flight at once.
	Concurrency int

	// Retries is the number of additional attempts after a failed one,
	// so each trial makes at most Retries+1 attempts.
	Retries int

	// Timeout bounds a single attempt, not the whole trial.
	Timeout time.Duration

	// OnProgress, if set, is invoked exactly once per completed trial,
	// in completion order. The completed count is monotonically
	// non-decreasing and reaches total exactly once.
	OnProgress func(completed, total int)
}

func (o RunOptions) withDefaults() (RunOptions, error) {
	if o.Iterations < 0 {
		return o, &ValidationError{Field: "iterations", Reason: "must be >= 0"}
	}
	if o.Concurrency < 0 {
		return o, &ValidationError{Field: "concurrency", Reason: "must be >= 1"}
	}
	if o.Retries < 0 {
		return o, &ValidationError{Field: "retries", Reason: "must be >= 0"}
	}
	if o.Timeout < 0 {
		return o, &ValidationError{Field: "timeout", Reason: "must be > 0"}
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	return o, nil
}

// PercentileStats summarizes one latency dimension in milliseconds.
// The zero value is returned for an empty sample set.
type PercentileStats struct {
	Min   float64
	Max   float64
	Mean  float64
	P50   float64
	P95   float64
	Count int
}

// AggregateResult is the reduction of one run. It is immutable once
// produced; IterationDetails is indexed by launch order, independent of
// completion order.
type AggregateResult struct {
	Iterations int
	Successes  int
	Failures   int

	PerIterationPassed []bool
	IterationDetails   []IterationResult

	ResourceUsageTotal        int
	ResourceUsagePerIteration []int

	// LatencyStats holds one entry per measurement dimension observed
	// across all iterations.
	LatencyStats map[string]PercentileStats
}

// LiveSink receives per-attempt observations while a run is in flight.
// Implementations must be safe for concurrent use.
type LiveSink interface {
	Observe(latency time.Duration, ok bool)
}
