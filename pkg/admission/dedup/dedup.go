package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// Guard suppresses duplicate inbound messages inside a sliding window.
//
// A message's identity is the pair (content, message timestamp), so the
// same text sent twice at different times is two distinct messages, while
// redelivery of one message (same timestamp) is caught. Guard is
// thread-safe.
type Guard struct {
	window time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewGuard creates a guard with the given dedup window.
func NewGuard(window time.Duration) *Guard {
	return &Guard{
		window: window,
		seen:   make(map[string]time.Time),
	}
}

// IsDuplicate reports whether a message with the given content and origin
// timestamp was already seen inside the window. A first-seen message is
// recorded at the given time. Entries older than the window are pruned
// before the lookup, so a repeat after the window has passed is treated as
// new.
func (g *Guard) IsDuplicate(content string, messageTimestamp int64, now time.Time) bool {
	key := fingerprint(content, messageTimestamp)

	g.mu.Lock()
	defer g.mu.Unlock()

	g.pruneLocked(now)

	if _, exists := g.seen[key]; exists {
		return true
	}
	g.seen[key] = now
	return false
}

// Prune removes entries older than the window at the given time and
// returns the number removed.
func (g *Guard) Prune(now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	before := len(g.seen)
	g.pruneLocked(now)
	return before - len(g.seen)
}

func (g *Guard) pruneLocked(now time.Time) {
	cutoff := now.Add(-g.window)
	for key, seenAt := range g.seen {
		if seenAt.Before(cutoff) {
			delete(g.seen, key)
		}
	}
}

// Size returns the number of tracked fingerprints.
func (g *Guard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}

func fingerprint(content string, messageTimestamp int64) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s:%d", content, messageTimestamp))
	return hex.EncodeToString(sum[:])
}
