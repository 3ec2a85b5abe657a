package storage

import (
	"context"
	"time"
)

// LimitState is the durable snapshot of one user's admission state: the
// last admitted query time for the cooldown and the running spend for the
// active budget day.
type LimitState struct {
	// UserID identifies the user this state belongs to.
	UserID string

	// Day is the budget day the spend belongs to, formatted 2006-01-02.
	Day string

	// SpentUSD is the recorded spend for Day.
	SpentUSD float64

	// LastAdmitted is when the user's last query was admitted. Zero if
	// the user has never been admitted.
	LastAdmitted time.Time

	// LastUpdated is when this state was last persisted.
	LastUpdated time.Time
}

// Backend is the interface for limit-state persistence.
//
// Backends store snapshots, not the source of truth: the in-memory
// limiter and ledger drive admission decisions, and the backend restores
// them after a restart. A lost write therefore degrades to a slightly
// more permissive state, never a corrupted one.
type Backend interface {
	// Save persists the state for a user, replacing any prior snapshot.
	Save(ctx context.Context, state *LimitState) error

	// Load retrieves the state for a user. Returns nil with no error if
	// the user has no snapshot.
	Load(ctx context.Context, userID string) (*LimitState, error)

	// List returns all persisted states.
	List(ctx context.Context) ([]*LimitState, error)

	// Delete removes the state for a user.
	Delete(ctx context.Context, userID string) error

	// Prune removes snapshots not updated since the given time and
	// returns the number removed.
	Prune(ctx context.Context, olderThan time.Time) (int, error)

	// Close releases any resources held by the backend.
	Close() error
}
