package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"brainbot-hq/brainbot/pkg/providers"
	"brainbot-hq/brainbot/pkg/telemetry/logging"
)

// Recorder receives per-attempt provider telemetry. The metrics
// collector implements it; a nil recorder disables recording.
type Recorder interface {
	RecordProviderCall(provider, model string, duration time.Duration, inputTokens, outputTokens int)
	RecordProviderError(provider, errorType string)
}

// Config contains the execution policy for provider queries.
type Config struct {
	// RequestTimeout bounds the total latency of a query, including
	// retries and backoff waits.
	// Default: 25s
	RequestTimeout time.Duration

	// MaxAttempts is the total number of attempts for transient failures.
	// Default: 3
	MaxAttempts int

	// BackoffBase is the wait before the second attempt; it doubles per
	// attempt thereafter. Tests shrink it.
	// Default: 1s
	BackoffBase time.Duration

	// BackoffCap is the upper bound on a single backoff wait.
	// Default: 10s
	BackoffCap time.Duration

	// Metrics receives per-attempt call latency, token usage, and error
	// counts. Nil disables recording.
	Metrics Recorder
}

func (c Config) withDefaults() Config {
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 25 * time.Second
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.BackoffBase == 0 {
		c.BackoffBase = time.Second
	}
	if c.BackoffCap == 0 {
		c.BackoffCap = 10 * time.Second
	}
	return c
}

// Runner executes provider queries under a deadline with retry on
// transient failures.
//
// One deadline covers the whole query: every attempt and every backoff
// wait runs under the same context, so a slow provider cannot stretch the
// query past RequestTimeout by failing fast and retrying slow.
type Runner struct {
	provider providers.Provider
	config   Config
}

// NewRunner creates a runner over the given provider.
func NewRunner(provider providers.Provider, config Config) *Runner {
	return &Runner{
		provider: provider,
		config:   config.withDefaults(),
	}
}

// Run executes a single answer request. Transient failures are retried
// with exponential backoff; permanent failures return immediately. When
// the deadline fires, the in-flight attempt is aborted and a TimeoutError
// reporting wall-clock elapsed time is returned.
func (r *Runner) Run(ctx context.Context, req *providers.AnswerRequest) (*providers.Answer, error) {
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.config.RequestTimeout)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		if attempt > 1 {
			backoff := r.backoff(attempt)
			slog.Debug("retrying query", r.logFields(ctx,
				"attempt", attempt,
				"max_attempts", r.config.MaxAttempts,
				"backoff", backoff,
			)...)

			select {
			case <-ctx.Done():
				return nil, r.deadlineError(ctx, started)
			case <-time.After(backoff):
			}
		}

		attemptStarted := time.Now()
		answer, err := r.provider.GenerateAnswer(ctx, req)
		if err == nil {
			r.recordCall(req.Model, time.Since(attemptStarted), answer)
			return answer, nil
		}
		r.recordError(err)

		if ctx.Err() != nil {
			return nil, r.deadlineError(ctx, started)
		}

		if !providers.IsTransient(err) {
			return nil, err
		}

		lastErr = err
		slog.Warn("query attempt failed", r.logFields(ctx,
			"attempt", attempt,
			"error", err,
		)...)
	}

	return nil, fmt.Errorf("%w after %d attempts: %v",
		ErrRetriesExhausted, r.config.MaxAttempts, lastErr)
}

// recordCall reports a successful attempt's latency and token usage.
func (r *Runner) recordCall(model string, duration time.Duration, answer *providers.Answer) {
	if r.config.Metrics == nil {
		return
	}
	r.config.Metrics.RecordProviderCall(r.provider.Name(), model, duration,
		answer.Usage.InputTokens, answer.Usage.OutputTokens)
}

// recordError reports a failed attempt under its error class. Each
// attempt counts separately, so a query that retries twice before
// succeeding shows two errors and one call.
func (r *Runner) recordError(err error) {
	if r.config.Metrics == nil {
		return
	}
	r.config.Metrics.RecordProviderError(r.provider.Name(), providers.ErrorClass(err))
}

// logFields merges the request-scoped fields carried in ctx with the
// given attrs. The provider name is added when the caller did not put
// one in the context.
func (r *Runner) logFields(ctx context.Context, extra ...any) []any {
	fields := logging.ContextFields(ctx)
	if logging.GetProvider(ctx) == "" {
		fields = append(fields, "provider", r.provider.Name())
	}
	return append(fields, extra...)
}

// backoff returns the wait before the given attempt (attempt >= 2).
func (r *Runner) backoff(attempt int) time.Duration {
	d := r.config.BackoffBase << (attempt - 2)
	if d > r.config.BackoffCap {
		d = r.config.BackoffCap
	}
	return d
}

// deadlineError maps a finished context to the caller-facing error:
// TimeoutError for a fired deadline, the raw cause for cancellation.
func (r *Runner) deadlineError(ctx context.Context, started time.Time) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Elapsed: time.Since(started)}
	}
	return ctx.Err()
}
