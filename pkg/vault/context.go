package vault

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ContextLoader holds the pre-aggregated knowledge context blob attached
// to every query. The blob is a single file maintained by external
// tooling; the loader reads it once at startup and, when watching is
// enabled, reloads it on change.
type ContextLoader struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	content string
	loaded  time.Time
}

// NewContextLoader creates a loader for the given context file and
// performs the initial load. A missing file is not an error: queries run
// without context until the file appears.
func NewContextLoader(path string, logger *slog.Logger) (*ContextLoader, error) {
	if path == "" {
		return nil, fmt.Errorf("context path cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	l := &ContextLoader{
		path:   path,
		logger: logger,
	}

	if err := l.Reload(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		logger.Warn("context file absent, starting without knowledge context",
			"path", path,
		)
	}

	return l, nil
}

// Context returns the current knowledge context blob.
func (l *ContextLoader) Context() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.content
}

// LoadedAt returns when the context was last loaded, zero if never.
func (l *ContextLoader) LoadedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// Reload re-reads the context file.
func (l *ContextLoader) Reload() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.content = string(data)
	l.loaded = time.Now()
	l.mu.Unlock()

	l.logger.Info("knowledge context loaded",
		"path", l.path,
		"bytes", len(data),
	)
	return nil
}

// Watch reloads the context whenever the file changes. It blocks until
// the context is cancelled. Rapid write bursts are debounced so one sync
// cycle triggers one reload.
func (l *ContextLoader) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors and sync tools replace
	// files by rename, which drops a direct file watch.
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		return fmt.Errorf("failed to watch context directory: %w", err)
	}

	debounce := newDebouncer(100 * time.Millisecond)
	defer debounce.Stop()

	l.logger.Info("context watcher started", "path", l.path)

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("context watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != filepath.Clean(l.path) ||
				event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}

			debounce.Trigger(func() {
				if err := l.Reload(); err != nil {
					l.logger.Error("context reload failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			l.logger.Error("context watcher error", "error", err)
		}
	}
}

// debouncer collapses rapid event bursts into a single callback after a
// quiet period.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopped  bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

// Trigger schedules the callback after the quiet period, replacing any
// pending one.
func (d *debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		cb := d.callback
		stopped := d.stopped
		d.mu.Unlock()

		if cb != nil && !stopped {
			cb()
		}
	})
}

// Stop cancels any pending callback.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
