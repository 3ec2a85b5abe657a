package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryBackend implements Backend with an in-process map. State does not
// survive a restart; it exists so the rest of the system can treat
// persistence as always present, and as the reference implementation for
// backend tests.
type MemoryBackend struct {
	mu     sync.RWMutex
	states map[string]*LimitState
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		states: make(map[string]*LimitState),
	}
}

// Save persists the state for a user, replacing any prior snapshot.
func (m *MemoryBackend) Save(ctx context.Context, state *LimitState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.UserID == "" {
		return fmt.Errorf("user id cannot be empty")
	}

	copied := *state
	if copied.LastUpdated.IsZero() {
		copied.LastUpdated = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[copied.UserID] = &copied
	return nil
}

// Load retrieves the state for a user, or nil if absent.
func (m *MemoryBackend) Load(ctx context.Context, userID string) (*LimitState, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	state, exists := m.states[userID]
	if !exists {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

// List returns all persisted states.
func (m *MemoryBackend) List(ctx context.Context) ([]*LimitState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	states := make([]*LimitState, 0, len(m.states))
	for _, state := range m.states {
		copied := *state
		states = append(states, &copied)
	}
	return states, nil
}

// Delete removes the state for a user.
func (m *MemoryBackend) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("user id cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
	return nil
}

// Prune removes snapshots not updated since the given time.
func (m *MemoryBackend) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for userID, state := range m.states {
		if state.LastUpdated.Before(olderThan) {
			delete(m.states, userID)
			removed++
		}
	}
	return removed, nil
}

// Close is a no-op for the in-memory backend.
func (m *MemoryBackend) Close() error {
	return nil
}
