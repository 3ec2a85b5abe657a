package dedup

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

func TestGuard_FirstSeenIsNotDuplicate(t *testing.T) {
	g := NewGuard(300 * time.Second)

	if g.IsDuplicate("buy milk", 1000, t0) {
		t.Error("first delivery flagged as duplicate")
	}
	if !g.IsDuplicate("buy milk", 1000, t0.Add(2*time.Second)) {
		t.Error("redelivery inside window not flagged")
	}
}

func TestGuard_IdentityIsContentAndTimestamp(t *testing.T) {
	g := NewGuard(300 * time.Second)

	g.IsDuplicate("buy milk", 1000, t0)

	// Same content, different origin timestamp: a genuinely new message.
	if g.IsDuplicate("buy milk", 1060, t0.Add(time.Minute)) {
		t.Error("same text at a different timestamp flagged as duplicate")
	}

	// Different content at the same timestamp.
	if g.IsDuplicate("buy eggs", 1000, t0) {
		t.Error("different content flagged as duplicate")
	}
}

func TestGuard_WindowExpiry(t *testing.T) {
	g := NewGuard(300 * time.Second)

	g.IsDuplicate("note", 1000, t0)

	// After the window the fingerprint is pruned on the next call, so the
	// repeat is recorded fresh.
	if g.IsDuplicate("note", 1000, t0.Add(301*time.Second)) {
		t.Error("repeat after window flagged as duplicate")
	}
	if !g.IsDuplicate("note", 1000, t0.Add(302*time.Second)) {
		t.Error("re-recorded message not flagged inside new window")
	}
}

func TestGuard_Prune(t *testing.T) {
	g := NewGuard(300 * time.Second)

	g.IsDuplicate("old", 1, t0)
	g.IsDuplicate("fresh", 2, t0.Add(200*time.Second))

	removed := g.Prune(t0.Add(350 * time.Second))
	if removed != 1 {
		t.Errorf("Prune removed %d, want 1", removed)
	}
	if g.Size() != 1 {
		t.Errorf("Size = %d, want 1", g.Size())
	}
}
