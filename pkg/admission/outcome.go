package admission

import (
	"errors"

	"brainbot-hq/brainbot/pkg/providers"
)

// Sentinel errors for admission rejections, set on QueryResult.Err so
// callers can branch with errors.Is without matching outcome strings.
var (
	ErrRateLimited    = errors.New("rate limited")
	ErrBudgetExceeded = errors.New("budget exceeded")
)

// Outcome is the terminal state of a handled query. Every query ends in
// exactly one outcome; no outcome is fatal to the controller itself.
type Outcome string

const (
	// OutcomeAnswered means the query executed and produced an answer.
	OutcomeAnswered Outcome = "answered"

	// OutcomeCacheHit means a fresh cached answer was served; no spend
	// was recorded and no provider call was made.
	OutcomeCacheHit Outcome = "cache_hit"

	// OutcomeRateLimited means the cooldown rejected the query.
	OutcomeRateLimited Outcome = "rate_limited"

	// OutcomeBudgetExceeded means the daily budget rejected the query.
	OutcomeBudgetExceeded Outcome = "budget_exceeded"

	// OutcomeTimeout means execution exceeded the request deadline.
	OutcomeTimeout Outcome = "timeout"

	// OutcomeRetriesExhausted means every attempt failed transiently.
	OutcomeRetriesExhausted Outcome = "retries_exhausted"

	// OutcomeProviderError means the provider failed permanently.
	OutcomeProviderError Outcome = "provider_error"
)

// QueryResult is the controller's answer to one handled query.
type QueryResult struct {
	// QueryID uniquely identifies this query in logs and traces.
	QueryID string

	// Outcome is the terminal state.
	Outcome Outcome

	// Answer is set for OutcomeAnswered and OutcomeCacheHit.
	Answer *providers.Answer

	// Cached reports whether Answer came from the result cache.
	Cached bool

	// Reason is the user-facing text for rejections and failures.
	Reason string

	// Err is the underlying execution error, if any.
	Err error
}

// OK reports whether the query produced an answer.
func (r *QueryResult) OK() bool {
	return r.Outcome == OutcomeAnswered || r.Outcome == OutcomeCacheHit
}
