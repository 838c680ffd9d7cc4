package trialbench

import (
	"context"
	"fmt"
	"time"
)

type attemptResult struct {
	outcome TrialOutcome
	err     error
}

// Guard races one trial attempt against a deadline. It returns the
// attempt's result if it settles in time, otherwise a *TimeoutError.
//
// Guard does not force-cancel the attempt: the context it passes to the
// trial is cancelled when the timer fires, and cooperative trials
// should stop then, but work that ignores the context simply has its
// eventual result discarded. The result channel is buffered so the late
// goroutine never leaks blocked on send.
func Guard(ctx context.Context, trial TrialFunc, timeout time.Duration) (TrialOutcome, error) {
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan attemptResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- attemptResult{err: &panicError{value: r}}
			}
		}()
		outcome, err := trial(attemptCtx)
		done <- attemptResult{outcome: outcome, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.outcome, r.err
	case <-timer.C:
		return TrialOutcome{}, &TimeoutError{Timeout: timeout}
	}
}

// panicError converts a panicking trial body into an ordinary attempt
// error, keeping the uniform "every failure is retryable" contract.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return "trial panicked: " + stringify(e.value)
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case error:
		return t.Error()
	default:
		return fmt.Sprintf("%v", t)
	}
}
