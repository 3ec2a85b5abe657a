package ratelimit

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestLimiter_FirstQueryAdmitted(t *testing.T) {
	l := NewLimiter(30 * time.Second)

	d := l.Admit("user-1", epoch)
	if !d.Allowed {
		t.Fatalf("first query rejected: %+v", d)
	}
}

func TestLimiter_CooldownBoundary(t *testing.T) {
	tests := []struct {
		name     string
		delta    time.Duration
		allowed  bool
		wantWait int
	}{
		{"immediately after", 0, false, 30},
		{"5s after", 5 * time.Second, false, 25},
		{"fractional remainder rounds up", 29500 * time.Millisecond, false, 1},
		{"exactly at cooldown", 30 * time.Second, true, 0},
		{"after cooldown", 31 * time.Second, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLimiter(30 * time.Second)
			if d := l.Admit("user-1", epoch); !d.Allowed {
				t.Fatalf("setup query rejected: %+v", d)
			}

			d := l.Admit("user-1", epoch.Add(tt.delta))
			if d.Allowed != tt.allowed {
				t.Fatalf("Admit(+%v).Allowed = %v, want %v", tt.delta, d.Allowed, tt.allowed)
			}
			if !tt.allowed && d.WaitSeconds != tt.wantWait {
				t.Errorf("WaitSeconds = %d, want %d", d.WaitSeconds, tt.wantWait)
			}
		})
	}
}

func TestLimiter_RejectionMessage(t *testing.T) {
	l := NewLimiter(30 * time.Second)
	l.Admit("user-1", epoch)

	d := l.Admit("user-1", epoch.Add(5*time.Second))
	want := "Please wait 25s before next query."
	if d.Reason != want {
		t.Errorf("Reason = %q, want %q", d.Reason, want)
	}
}

func TestLimiter_RejectionDoesNotExtendCooldown(t *testing.T) {
	l := NewLimiter(30 * time.Second)
	l.Admit("user-1", epoch)

	// Hammering during the cooldown must not move the admission point.
	for i := 1; i <= 29; i++ {
		if d := l.Admit("user-1", epoch.Add(time.Duration(i)*time.Second)); d.Allowed {
			t.Fatalf("query at +%ds admitted during cooldown", i)
		}
	}

	if d := l.Admit("user-1", epoch.Add(30*time.Second)); !d.Allowed {
		t.Errorf("query at +30s rejected after rejected attempts: %+v", d)
	}
}

func TestLimiter_UsersIndependent(t *testing.T) {
	l := NewLimiter(30 * time.Second)

	l.Admit("user-1", epoch)
	if d := l.Admit("user-2", epoch.Add(time.Second)); !d.Allowed {
		t.Errorf("user-2 throttled by user-1's cooldown: %+v", d)
	}
}

func TestLimiter_SnapshotRestore(t *testing.T) {
	l := NewLimiter(30 * time.Second)
	l.Admit("user-1", epoch)

	last, ok := l.LastAdmitted("user-1")
	if !ok || !last.Equal(epoch) {
		t.Fatalf("LastAdmitted = %v, %v", last, ok)
	}

	restored := NewLimiter(30 * time.Second)
	restored.SetLastAdmitted("user-1", last)

	if d := restored.Admit("user-1", epoch.Add(10*time.Second)); d.Allowed {
		t.Error("restored limiter forgot the cooldown")
	}
	if d := restored.Admit("user-1", epoch.Add(31*time.Second)); !d.Allowed {
		t.Errorf("restored limiter rejected past cooldown: %+v", d)
	}
}
