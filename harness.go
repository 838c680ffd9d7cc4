package trialbench

import (
	"context"
	"log/slog"
	"sync"
)

// Harness owns the engine's post-run query surface. It holds the most
// recent AggregateResult; every metric accessor except Results fails
// with ErrNoResults until the first Run completes. A new Run replaces
// the previous result (latest-run semantics).
type Harness struct {
	logger *slog.Logger
	sink   LiveSink

	mu   sync.RWMutex
	last *AggregateResult
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger used for trial failures and run summaries.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithLiveSink registers a sink that observes every attempt while a run
// is in flight, e.g. a live statistics tracker.
func WithLiveSink(s LiveSink) Option {
	return func(h *Harness) { h.sink = s }
}

// New returns a Harness with no results yet.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes one full run of the trial and stores its aggregate as
// the latest result. Per-trial failures are captured in the aggregate;
// Run itself fails only on malformed options.
func (h *Harness) Run(ctx context.Context, trial TrialFunc, opts RunOptions) (*AggregateResult, error) {
	details, err := runTrials(ctx, trial, opts, h.logger, h.sink)
	if err != nil {
		return nil, err
	}
	agg := Aggregate(details)

	h.mu.Lock()
	h.last = agg
	h.mu.Unlock()

	h.logger.Info("run complete",
		"iterations", agg.Iterations,
		"successes", agg.Successes,
		"failures", agg.Failures)
	return agg, nil
}

// Results returns the latest aggregate, or nil if no run has completed.
// It is the only accessor that may legitimately report "nothing yet"
// without an error.
func (h *Harness) Results() *AggregateResult {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

func (h *Harness) aggregate() (*AggregateResult, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.last == nil {
		return nil, ErrNoResults
	}
	return h.last, nil
}

// Accuracy is the fraction of iterations that passed, 0 for an empty
// run.
func (h *Harness) Accuracy() (float64, error) {
	agg, err := h.aggregate()
	if err != nil {
		return 0, err
	}
	if agg.Iterations == 0 {
		return 0, nil
	}
	return float64(agg.Successes) / float64(agg.Iterations), nil
}

// Recall equals Accuracy: this pass/fail model has no separate
// false-negative concept.
func (h *Harness) Recall() (float64, error) {
	return h.Accuracy()
}

// Precision equals Accuracy, for the same reason as Recall.
func (h *Harness) Precision() (float64, error) {
	return h.Accuracy()
}

// TruePositiveRate equals Recall.
func (h *Harness) TruePositiveRate() (float64, error) {
	return h.Recall()
}

// FalsePositiveRate is the fraction of iterations that failed.
func (h *Harness) FalsePositiveRate() (float64, error) {
	agg, err := h.aggregate()
	if err != nil {
		return 0, err
	}
	if agg.Iterations == 0 {
		return 0, nil
	}
	return float64(agg.Failures) / float64(agg.Iterations), nil
}

// AverageResourceUsage is the mean resource consumption per iteration.
func (h *Harness) AverageResourceUsage() (float64, error) {
	agg, err := h.aggregate()
	if err != nil {
		return 0, err
	}
	if agg.Iterations == 0 {
		return 0, nil
	}
	return float64(agg.ResourceUsageTotal) / float64(agg.Iterations), nil
}

// AllIterations returns a copy of every iteration result in launch
// order. Repeated calls return value-equal but non-aliased slices.
func (h *Harness) AllIterations() ([]IterationResult, error) {
	agg, err := h.aggregate()
	if err != nil {
		return nil, err
	}
	return append([]IterationResult(nil), agg.IterationDetails...), nil
}

// FailedIterations returns a copy of the iterations that did not pass.
func (h *Harness) FailedIterations() ([]IterationResult, error) {
	return h.filterIterations(func(r IterationResult) bool { return !r.Passed })
}

// SuccessfulIterations returns a copy of the iterations that passed.
func (h *Harness) SuccessfulIterations() ([]IterationResult, error) {
	return h.filterIterations(func(r IterationResult) bool { return r.Passed })
}

func (h *Harness) filterIterations(keep func(IterationResult) bool) ([]IterationResult, error) {
	agg, err := h.aggregate()
	if err != nil {
		return nil, err
	}
	out := make([]IterationResult, 0, len(agg.IterationDetails))
	for _, r := range agg.IterationDetails {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}
