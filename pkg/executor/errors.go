package executor

import (
	"errors"
	"fmt"
	"time"
)

// ErrRetriesExhausted indicates all attempts failed with transient errors.
// The last attempt's error is attached to the chain alongside it.
var ErrRetriesExhausted = errors.New("retries exhausted")

// TimeoutError indicates a query exceeded its overall deadline. The
// deadline covers all attempts, including backoff waits between them.
type TimeoutError struct {
	// Elapsed is how long the query ran before the deadline fired.
	Elapsed time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("query timed out after %ds", int(e.Elapsed.Seconds()))
}

// UnknownTierError indicates a query named a tier with no configured route.
type UnknownTierError struct {
	// Tier is the requested tier name.
	Tier string
}

// Error implements the error interface.
func (e *UnknownTierError) Error() string {
	return fmt.Sprintf("no route configured for tier %q", e.Tier)
}
