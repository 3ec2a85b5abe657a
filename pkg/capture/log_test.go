package capture

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := NewLog(filepath.Join(t.TempDir(), "captures.db"))
	if err != nil {
		t.Fatalf("NewLog: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLog_InsertAndRecent(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i, preview := range []string{"first", "second", "third"} {
		err := l.Insert(ctx, Entry{
			Key:        GenerateFilename(base.Add(time.Duration(i) * time.Minute)),
			Preview:    preview,
			CapturedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	entries, err := l.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Preview != "third" || entries[1].Preview != "second" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestLog_TodayCount(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()

	today := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	yesterday := today.Add(-24 * time.Hour)

	l.Insert(ctx, Entry{Key: "a", Preview: "a", CapturedAt: yesterday})
	l.Insert(ctx, Entry{Key: "b", Preview: "b", CapturedAt: today})
	l.Insert(ctx, Entry{Key: "c", Preview: "c", CapturedAt: today.Add(time.Hour)})

	count, err := l.TodayCount(ctx, today)
	if err != nil {
		t.Fatalf("TodayCount: %v", err)
	}
	if count != 2 {
		t.Errorf("TodayCount = %d, want 2", count)
	}
}

func TestLog_RecentEmptyLog(t *testing.T) {
	l := newTestLog(t)

	entries, err := l.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %+v, want none", entries)
	}
}

func TestLog_ForwardedFromRoundTrip(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()

	l.Insert(ctx, Entry{
		Key:           "k",
		Preview:       "p",
		ForwardedFrom: "Jane Doe",
		CapturedAt:    time.Now(),
	})

	entries, err := l.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if entries[0].ForwardedFrom != "Jane Doe" {
		t.Errorf("ForwardedFrom = %q", entries[0].ForwardedFrom)
	}
}
