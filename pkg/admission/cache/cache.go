package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"brainbot-hq/brainbot/pkg/providers"
)

// Cache is a short-lived store of prior answers keyed by user and
// normalized question text.
//
// Eviction is lazy: a Get that finds an entry past its TTL removes it and
// reports a miss, so an expired answer is never returned. Prune sweeps the
// whole map and is run by background maintenance.
//
// Cache is thread-safe.
type Cache struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	answer   *providers.Answer
	cachedAt time.Time
}

// New creates a cache whose entries stay fresh for ttl after insertion.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Get returns the cached answer for (userID, question) if present and
// fresh at the given time. An expired entry is evicted and reported as a
// miss.
func (c *Cache) Get(userID, question string, now time.Time) (*providers.Answer, bool) {
	key := Key(userID, question)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	if now.Sub(e.cachedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}

	return e.answer, true
}

// Put stores an answer for (userID, question), overwriting any existing
// entry for the same key.
func (c *Cache) Put(userID, question string, answer *providers.Answer, now time.Time) {
	key := Key(userID, question)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{answer: answer, cachedAt: now}
}

// Prune removes all entries past their TTL at the given time and returns
// the number removed.
func (c *Cache) Prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if now.Sub(e.cachedAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Size returns the current number of entries, expired or not.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Key derives the cache key from a user ID and question. The question is
// normalized (trimmed, case-folded) before hashing so formatting variants
// of the same question collide to one entry.
func Key(userID, question string) string {
	normalized := strings.ToLower(strings.TrimSpace(question))
	sum := sha256.Sum256([]byte(userID + ":" + normalized))
	return hex.EncodeToString(sum[:])
}
