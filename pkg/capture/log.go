package capture

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Log records every filed capture in SQLite so /status can report today's
// count and recent captures without walking the vault.
type Log struct {
	db        *sql.DB
	mu        sync.RWMutex
	closeOnce sync.Once

	insertStmt *sql.Stmt
	recentStmt *sql.Stmt
	countStmt  *sql.Stmt
}

// Entry is one capture-log row.
type Entry struct {
	// Key is the object key the note was filed under.
	Key string

	// Preview is a short excerpt of the captured content.
	Preview string

	// ForwardedFrom names the original sender, empty for direct captures.
	ForwardedFrom string

	// CapturedAt is when the capture was received.
	CapturedAt time.Time
}

// dayFormat matches the budget ledger's calendar-day key.
const dayFormat = "2006-01-02"

// NewLog opens (or creates) the capture log database at path.
func NewLog(path string) (*Log, error) {
	if path == "" {
		return nil, fmt.Errorf("capture log path cannot be empty")
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open capture log: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	l := &Log{db: db}

	if err := l.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize capture log schema: %w", err)
	}
	if err := l.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare capture log statements: %w", err)
	}

	return l, nil
}

func (l *Log) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS captures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT NOT NULL,
		preview TEXT NOT NULL,
		forwarded_from TEXT NOT NULL DEFAULT '',
		day TEXT NOT NULL,
		captured_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_captures_day ON captures(day);
	CREATE INDEX IF NOT EXISTS idx_captures_captured_at ON captures(captured_at);
	`

	_, err := l.db.Exec(schema)
	return err
}

func (l *Log) prepareStatements() error {
	var err error

	l.insertStmt, err = l.db.Prepare(`
		INSERT INTO captures (key, preview, forwarded_from, day, captured_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}

	l.recentStmt, err = l.db.Prepare(`
		SELECT key, preview, forwarded_from, captured_at
		FROM captures
		ORDER BY captured_at DESC, id DESC
		LIMIT ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare recent statement: %w", err)
	}

	l.countStmt, err = l.db.Prepare(`
		SELECT COUNT(*) FROM captures WHERE day = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare count statement: %w", err)
	}

	return nil
}

// Insert records a filed capture.
func (l *Log) Insert(ctx context.Context, entry Entry) error {
	if entry.Key == "" {
		return fmt.Errorf("entry key cannot be empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.insertStmt.ExecContext(ctx,
		entry.Key,
		entry.Preview,
		entry.ForwardedFrom,
		entry.CapturedAt.Format(dayFormat),
		entry.CapturedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert capture: %w", err)
	}
	return nil
}

// Recent returns the most recent captures, newest first.
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 5
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	rows, err := l.recentStmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent captures: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry      Entry
			capturedAt int64
		)
		if err := rows.Scan(&entry.Key, &entry.Preview, &entry.ForwardedFrom, &capturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan capture row: %w", err)
		}
		entry.CapturedAt = time.Unix(capturedAt, 0)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating capture rows: %w", err)
	}

	return entries, nil
}

// TodayCount returns how many captures were filed on the calendar day of
// the given time.
func (l *Log) TodayCount(ctx context.Context, now time.Time) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var count int
	err := l.countStmt.QueryRowContext(ctx, now.Format(dayFormat)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count captures: %w", err)
	}
	return count, nil
}

// Close releases the database. Close is idempotent.
func (l *Log) Close() error {
	var closeErr error

	l.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{l.insertStmt, l.recentStmt, l.countStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		closeErr = l.db.Close()
	})

	return closeErr
}
