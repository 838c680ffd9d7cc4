package trialbench

import (
	"context"
	"log/slog"
	"time"
)

// retryBaseBackoff is the delay before the second attempt; it doubles
// for every attempt after that. No jitter, so backoff timing is
// deterministic for tests.
const retryBaseBackoff = 100 * time.Millisecond

// RetryPolicy repeats a timeout-guarded attempt with exponential
// backoff until it succeeds or the attempt budget is exhausted. Every
// attempt error is treated the same; there is no error-type filtering.
type RetryPolicy struct {
	Retries int
	Timeout time.Duration
	Logger  *slog.Logger
	Sink    LiveSink

	// sleep is swapped out by tests to observe backoff delays.
	sleep func(time.Duration)
}

// Execute makes up to Retries+1 attempts. On the first resolved attempt
// it returns the outcome and the number of retries that preceded it. On
// exhaustion it returns the last attempt's error with retryCount equal
// to Retries.
func (p RetryPolicy) Execute(ctx context.Context, trial TrialFunc) (TrialOutcome, int, error) {
	sleep := p.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var lastErr error
	for attempt := 1; attempt <= p.Retries+1; attempt++ {
		start := time.Now()
		outcome, err := Guard(ctx, trial, p.Timeout)
		if p.Sink != nil {
			p.Sink.Observe(time.Since(start), err == nil && outcome.Passed)
		}
		if err == nil {
			return outcome, attempt - 1, nil
		}
		lastErr = err

		if attempt <= p.Retries {
			delay := retryBaseBackoff << (attempt - 1)
			logger.Debug("trial attempt failed, backing off",
				"attempt", attempt,
				"backoff", delay,
				"error", err)
			sleep(delay)
		}
	}
	return TrialOutcome{}, p.Retries, lastErr
}
