package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"brainbot-hq/brainbot/pkg/admission/dedup"
	"brainbot-hq/brainbot/pkg/vault"
)

// ErrDuplicate indicates the message was already captured inside the
// dedup window.
var ErrDuplicate = errors.New("duplicate capture")

// Recorder is the metrics surface the service reports to. The telemetry
// collector implements it; tests pass nil.
type Recorder interface {
	RecordCapture(kind string)
	RecordDuplicateCapture()
}

// Service files captured messages into the vault: dedup check, markdown
// formatting, object write, capture-log insert.
type Service struct {
	guard   *dedup.Guard
	store   vault.ObjectStore
	log     *Log
	prefix  string
	metrics Recorder
	logger  *slog.Logger
}

// Result describes a filed capture.
type Result struct {
	// Key is the object key the note was filed under.
	Key string
}

// NewService creates a capture service. The capture log and metrics
// recorder may be nil.
func NewService(guard *dedup.Guard, store vault.ObjectStore, log *Log, inboxPrefix string, metrics Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		guard:   guard,
		store:   store,
		log:     log,
		prefix:  inboxPrefix,
		metrics: metrics,
		logger:  logger,
	}
}

// Capture files a message as an inbox note. messageTimestamp is the
// transport's origin timestamp, used with the content as the dedup
// identity; a redelivery inside the window returns ErrDuplicate and
// writes nothing.
func (s *Service) Capture(ctx context.Context, content, forwardedFrom string, messageTimestamp int64, now time.Time) (*Result, error) {
	if content == "" {
		return nil, fmt.Errorf("capture content cannot be empty")
	}

	if s.guard.IsDuplicate(content, messageTimestamp, now) {
		s.logger.Info("skipping duplicate capture",
			"preview", Preview(content, 50),
		)
		if s.metrics != nil {
			s.metrics.RecordDuplicateCapture()
		}
		return nil, ErrDuplicate
	}

	key := s.prefix + GenerateFilename(now)
	note := FormatNote(Note{
		Content:       content,
		CapturedAt:    now,
		ForwardedFrom: forwardedFrom,
	})

	if err := s.store.Put(ctx, key, []byte(note)); err != nil {
		return nil, fmt.Errorf("failed to file capture: %w", err)
	}

	if s.log != nil {
		err := s.log.Insert(ctx, Entry{
			Key:           key,
			Preview:       Preview(content, 50),
			ForwardedFrom: forwardedFrom,
			CapturedAt:    now,
		})
		if err != nil {
			// The note is already filed; a log failure only degrades /status.
			s.logger.Error("capture log insert failed", "key", key, "error", err)
		}
	}

	if s.metrics != nil {
		kind := "text"
		if forwardedFrom != "" {
			kind = "forwarded"
		}
		s.metrics.RecordCapture(kind)
	}

	s.logger.Info("capture filed", "key", key)
	return &Result{Key: key}, nil
}
