package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteBackend_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.db")
	ctx := context.Background()

	backend, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("NewSQLiteBackend: %v", err)
	}

	admitted := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	err = backend.Save(ctx, &LimitState{
		UserID:       "user-1",
		Day:          "2026-08-01",
		SpentUSD:     0.60,
		LastAdmitted: admitted,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	state, err := reopened.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if state == nil {
		t.Fatal("state lost across reopen")
	}
	if state.SpentUSD != 0.60 || !state.LastAdmitted.Equal(admitted) {
		t.Errorf("state = %+v", state)
	}
}

func TestSQLiteBackend_ZeroLastAdmitted(t *testing.T) {
	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "limits.db"))
	if err != nil {
		t.Fatalf("NewSQLiteBackend: %v", err)
	}
	defer backend.Close()
	ctx := context.Background()

	// A user with recorded spend but no admitted query yet.
	backend.Save(ctx, &LimitState{UserID: "user-1", Day: "2026-08-01", SpentUSD: 0.10})

	state, err := backend.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !state.LastAdmitted.IsZero() {
		t.Errorf("LastAdmitted = %v, want zero", state.LastAdmitted)
	}
}

func TestSQLiteBackend_RequiresPath(t *testing.T) {
	if _, err := NewSQLiteBackendWithConfig(SQLiteBackendConfig{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestSQLiteBackend_CloseIsIdempotent(t *testing.T) {
	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "limits.db"))
	if err != nil {
		t.Fatalf("NewSQLiteBackend: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
