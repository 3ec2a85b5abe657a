package ratelimit

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// Limiter enforces a minimum spacing between admitted queries per user.
//
// Unlike a token bucket, the cooldown limiter admits at most one query per
// cooldown interval and carries no burst allowance: a query is admitted iff
// at least the cooldown has elapsed since the last admitted query for that
// user. State is mutated only on the admitted path, so a rejected query
// does not push the next allowed time further out.
//
// Limiter is thread-safe.
type Limiter struct {
	cooldown time.Duration

	mu           sync.Mutex
	lastAdmitted map[string]time.Time
}

// Decision is the result of an admission check.
type Decision struct {
	// Allowed indicates if the query is permitted.
	Allowed bool

	// WaitSeconds is how many whole seconds remain until the next query
	// would be admitted (if Allowed=false). Fractional remainders round up.
	WaitSeconds int

	// Reason is the user-facing rejection text (if Allowed=false).
	Reason string
}

// NewLimiter creates a cooldown limiter with the given minimum spacing.
func NewLimiter(cooldown time.Duration) *Limiter {
	return &Limiter{
		cooldown:     cooldown,
		lastAdmitted: make(map[string]time.Time),
	}
}

// Admit checks whether a query from userID may proceed at the given time.
// On admission the user's record is updated to now; on rejection the record
// is left unchanged.
func (l *Limiter) Admit(userID string, now time.Time) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	last, exists := l.lastAdmitted[userID]
	if exists {
		elapsed := now.Sub(last)
		if elapsed < l.cooldown {
			wait := int(math.Ceil((l.cooldown - elapsed).Seconds()))
			return Decision{
				Allowed:     false,
				WaitSeconds: wait,
				Reason:      fmt.Sprintf("Please wait %ds before next query.", wait),
			}
		}
	}

	l.lastAdmitted[userID] = now
	return Decision{Allowed: true}
}

// LastAdmitted returns the time of the user's last admitted query and
// whether one exists. Used when snapshotting state for persistence.
func (l *Limiter) LastAdmitted(userID string) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	last, ok := l.lastAdmitted[userID]
	return last, ok
}

// SetLastAdmitted seeds the user's record, typically when restoring
// persisted state at startup. A zero time is ignored.
func (l *Limiter) SetLastAdmitted(userID string, at time.Time) {
	if at.IsZero() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastAdmitted[userID] = at
}

// Reset clears all records. This is primarily for testing.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastAdmitted = make(map[string]time.Time)
}
