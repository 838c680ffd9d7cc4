package trialbench

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// RunTrials executes opts.Iterations independent trials of the given
// TrialFunc, throttled to opts.Concurrency in-flight trials by a FIFO
// semaphore, and returns one IterationResult per trial in launch order.
//
// All iterations are launched up front; the semaphore alone limits how
// many execute at once. RunTrials returns only after every trial has
// reached a terminal state. A trial that exhausts its retries does not
// abort its siblings; it is recorded as failed with its last error
// preserved. The only error RunTrials itself returns is a
// *ValidationError for malformed options.
func RunTrials(ctx context.Context, trial TrialFunc, opts RunOptions) ([]IterationResult, error) {
	return runTrials(ctx, trial, opts, nil, nil)
}

func runTrials(ctx context.Context, trial TrialFunc, opts RunOptions, logger *slog.Logger, sink LiveSink) ([]IterationResult, error) {
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sem := NewSemaphore(o.Concurrency)
	policy := RetryPolicy{
		Retries: o.Retries,
		Timeout: o.Timeout,
		Logger:  logger,
		Sink:    sink,
	}

	results := make([]IterationResult, o.Iterations)

	// progressMu serializes the completed counter together with the
	// callback, so observers always see a monotonic count.
	var progressMu sync.Mutex
	completed := 0

	var wg sync.WaitGroup
	for i := 0; i < o.Iterations; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sem.Acquire()
			outcome, retryCount, trialErr := func() (TrialOutcome, int, error) {
				defer sem.Release()
				return policy.Execute(ctx, trial)
			}()

			res := IterationResult{
				ID:         uuid.New().String(),
				Index:      idx,
				RetryCount: retryCount,
			}
			if trialErr != nil {
				res.Error = trialErr.Error()
				logger.Warn("trial exhausted retries",
					"index", idx,
					"retries", retryCount,
					"error", trialErr)
			} else {
				res.Passed = outcome.Passed
				res.Measurements = outcome.Measurements
				res.ResourceUsage = outcome.ResourceUsage
				res.Error = outcome.Err
			}
			results[idx] = res

			progressMu.Lock()
			completed++
			if o.OnProgress != nil {
				o.OnProgress(completed, o.Iterations)
			}
			progressMu.Unlock()
		}(i)
	}
	wg.Wait()

	return results, nil
}
