package budget

import (
	"fmt"
	"sync"
	"time"
)

// dayFormat is the calendar-day key format for ledger rows.
const dayFormat = "2006-01-02"

// Ledger tracks cumulative spend per user per calendar day against a cap.
//
// Rows roll over lazily: any read or write that observes a stored day
// different from the current one resets the row before proceeding. There
// is no background timer.
//
// The cap is a point-in-time gate. Check rejects once cumulative spend has
// reached the cap, but it never inspects the cost of the upcoming query
// (unknown until execution completes), so one admitted query can land the
// recorded total above the cap.
//
// Ledger is thread-safe.
type Ledger struct {
	capUSD float64

	mu   sync.Mutex
	rows map[string]*row
}

type row struct {
	day   string
	spent float64
}

// Status is the result of a budget check.
type Status struct {
	// Allowed indicates if spending is within the daily cap.
	Allowed bool

	// Reason is the user-facing rejection text (if Allowed=false).
	Reason string

	// Limit is the configured daily cap in USD.
	Limit float64

	// Spent is the amount recorded today in USD.
	Spent float64

	// Remaining is the budget remaining in USD (never negative).
	Remaining float64
}

// Entry is a snapshot of one user's ledger row, used for persistence.
type Entry struct {
	UserID   string
	Day      string
	SpentUSD float64
}

// NewLedger creates a ledger with the given daily cap in USD.
func NewLedger(capUSD float64) *Ledger {
	return &Ledger{
		capUSD: capUSD,
		rows:   make(map[string]*row),
	}
}

// Check reports whether a new query for userID may proceed at the given
// time. It rejects iff spend recorded for the current day has already
// reached the cap.
func (l *Ledger) Check(userID string, now time.Time) Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	r := l.rowLocked(userID, now)

	if r.spent >= l.capUSD {
		return Status{
			Allowed:   false,
			Reason:    fmt.Sprintf("Daily budget ($%.2f) exceeded.", l.capUSD),
			Limit:     l.capUSD,
			Spent:     r.spent,
			Remaining: 0,
		}
	}

	return Status{
		Allowed:   true,
		Limit:     l.capUSD,
		Spent:     r.spent,
		Remaining: l.capUSD - r.spent,
	}
}

// Record adds cost to the user's current-day total. It adds
// unconditionally; callers must invoke it only after a successful
// execution.
func (l *Ledger) Record(userID string, costUSD float64, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r := l.rowLocked(userID, now)
	r.spent += costUSD
}

// Spent returns the amount recorded for userID on the current day.
func (l *Ledger) Spent(userID string, now time.Time) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rowLocked(userID, now).spent
}

// Remaining returns the budget left for userID today, floored at zero.
func (l *Ledger) Remaining(userID string, now time.Time) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	r := l.rowLocked(userID, now)
	if r.spent >= l.capUSD {
		return 0
	}
	return l.capUSD - r.spent
}

// Snapshot returns the current-day rows for all users, rolling over stale
// rows first. Used when persisting ledger state.
func (l *Ledger) Snapshot(now time.Time) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	today := now.Format(dayFormat)
	entries := make([]Entry, 0, len(l.rows))
	for userID, r := range l.rows {
		if r.day != today {
			continue
		}
		entries = append(entries, Entry{UserID: userID, Day: r.day, SpentUSD: r.spent})
	}
	return entries
}

// Restore seeds the ledger from persisted entries. Entries for days other
// than the current one are ignored; restoring never lowers an existing
// row's total.
func (l *Ledger) Restore(entries []Entry, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	today := now.Format(dayFormat)
	for _, e := range entries {
		if e.Day != today {
			continue
		}
		r := l.rowLocked(e.UserID, now)
		if e.SpentUSD > r.spent {
			r.spent = e.SpentUSD
		}
	}
}

// Cap returns the configured daily cap in USD.
func (l *Ledger) Cap() float64 {
	return l.capUSD
}

// rowLocked returns the user's row, creating it or rolling it over to the
// current day as needed. Caller must hold the lock.
func (l *Ledger) rowLocked(userID string, now time.Time) *row {
	today := now.Format(dayFormat)

	r, exists := l.rows[userID]
	if !exists {
		r = &row{day: today}
		l.rows[userID] = r
		return r
	}

	if r.day != today {
		r.day = today
		r.spent = 0
	}
	return r
}
