package capture

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"brainbot-hq/brainbot/pkg/admission/dedup"
	"brainbot-hq/brainbot/pkg/vault"
)

type countingRecorder struct {
	captures   map[string]int
	duplicates int
}

func (r *countingRecorder) RecordCapture(kind string) {
	if r.captures == nil {
		r.captures = make(map[string]int)
	}
	r.captures[kind]++
}

func (r *countingRecorder) RecordDuplicateCapture() { r.duplicates++ }

func newTestService(t *testing.T) (*Service, *vault.MemoryStore, *Log, *countingRecorder) {
	t.Helper()

	store := vault.NewMemoryStore()
	log, err := NewLog(filepath.Join(t.TempDir(), "captures.db"))
	if err != nil {
		t.Fatalf("NewLog: %v", err)
	}
	t.Cleanup(func() { log.Close() })

	recorder := &countingRecorder{}
	service := NewService(dedup.NewGuard(300*time.Second), store, log, "inbox/", recorder, nil)
	return service, store, log, recorder
}

func TestService_CaptureFilesNote(t *testing.T) {
	service, store, log, recorder := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 30, 45, 0, time.UTC)

	result, err := service.Capture(ctx, "buy milk", "", 1000, now)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if result.Key != "inbox/2026-08-01-123045 Capture.md" {
		t.Errorf("Key = %q", result.Key)
	}

	data, err := store.Get(ctx, result.Key)
	if err != nil {
		t.Fatalf("note not filed: %v", err)
	}
	if !strings.Contains(string(data), "buy milk") {
		t.Errorf("note content = %q", data)
	}

	count, _ := log.TodayCount(ctx, now)
	if count != 1 {
		t.Errorf("TodayCount = %d, want 1", count)
	}
	if recorder.captures["text"] != 1 {
		t.Errorf("captures = %v", recorder.captures)
	}
}

func TestService_DuplicateWritesNothing(t *testing.T) {
	service, store, _, recorder := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if _, err := service.Capture(ctx, "note", "", 1000, now); err != nil {
		t.Fatalf("first Capture: %v", err)
	}

	_, err := service.Capture(ctx, "note", "", 1000, now.Add(2*time.Second))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("got %v, want ErrDuplicate", err)
	}

	keys, _ := store.List(ctx, "inbox/")
	if len(keys) != 1 {
		t.Errorf("keys = %v, duplicate was filed", keys)
	}
	if recorder.duplicates != 1 {
		t.Errorf("duplicates = %d", recorder.duplicates)
	}
}

func TestService_SameTextLaterIsNewCapture(t *testing.T) {
	service, store, _, _ := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	service.Capture(ctx, "note", "", 1000, now)

	// Same text typed again a minute later carries a new origin timestamp.
	if _, err := service.Capture(ctx, "note", "", 1060, now.Add(time.Minute)); err != nil {
		t.Fatalf("second Capture: %v", err)
	}

	keys, _ := store.List(ctx, "inbox/")
	if len(keys) != 2 {
		t.Errorf("keys = %v, want 2 notes", keys)
	}
}

func TestService_ForwardedCapture(t *testing.T) {
	service, store, _, recorder := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	result, err := service.Capture(ctx, "article", "Jane Doe", 1000, now)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	data, _ := store.Get(ctx, result.Key)
	if !strings.Contains(string(data), "**Forwarded from**: Jane Doe") {
		t.Errorf("note = %q", data)
	}
	if recorder.captures["forwarded"] != 1 {
		t.Errorf("captures = %v", recorder.captures)
	}
}

func TestService_EmptyContentRejected(t *testing.T) {
	service, _, _, _ := newTestService(t)

	if _, err := service.Capture(context.Background(), "", "", 1000, time.Now()); err == nil {
		t.Error("empty capture accepted")
	}
}
