package trialbench

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardPassesThroughResult(t *testing.T) {
	trial := func(ctx context.Context) (TrialOutcome, error) {
		return TrialOutcome{Passed: true}, nil
	}

	outcome, err := Guard(context.Background(), trial, time.Second)
	require.NoError(t, err)
	assert.True(t, outcome.Passed)
}

func TestGuardPassesThroughError(t *testing.T) {
	boom := errors.New("upstream unavailable")
	trial := func(ctx context.Context) (TrialOutcome, error) {
		return TrialOutcome{}, boom
	}

	_, err := Guard(context.Background(), trial, time.Second)
	require.ErrorIs(t, err, boom)
}

func TestGuardTimesOut(t *testing.T) {
	trial := func(ctx context.Context) (TrialOutcome, error) {
		time.Sleep(500 * time.Millisecond)
		return TrialOutcome{Passed: true}, nil
	}

	start := time.Now()
	_, err := Guard(context.Background(), trial, 50*time.Millisecond)
	elapsed := time.Since(start)

	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "Operation timed out after 50ms", err.Error())
	assert.Less(t, elapsed, 400*time.Millisecond, "guard should return at the deadline, not wait for the trial")
}

func TestGuardCancelsAttemptContextOnTimeout(t *testing.T) {
	cancelled := make(chan struct{})
	trial := func(ctx context.Context) (TrialOutcome, error) {
		<-ctx.Done()
		close(cancelled)
		return TrialOutcome{}, ctx.Err()
	}

	_, err := Guard(context.Background(), trial, 20*time.Millisecond)
	require.Error(t, err)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("attempt context was never cancelled")
	}
}

func TestGuardRecoversPanickingTrial(t *testing.T) {
	trial := func(ctx context.Context) (TrialOutcome, error) {
		panic("trial body exploded")
	}

	_, err := Guard(context.Background(), trial, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trial panicked")
	assert.Contains(t, err.Error(), "trial body exploded")
}
