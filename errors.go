package trialbench

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoResults is returned by metric accessors that are queried before
// any run has completed. It signals programmer error, not a failed run.
var ErrNoResults = errors.New("no results available: call Run first")

// ValidationError reports malformed RunOptions. It propagates out of
// Run before any trial launches.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid run options: %s %s", e.Field, e.Reason)
}

// TimeoutError reports that one attempt exceeded its deadline. The
// retry policy consumes it like any other attempt error.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("Operation timed out after %dms", e.Timeout.Milliseconds())
}
