package admission

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"brainbot-hq/brainbot/pkg/admission/budget"
	"brainbot-hq/brainbot/pkg/admission/cache"
	"brainbot-hq/brainbot/pkg/admission/ratelimit"
	"brainbot-hq/brainbot/pkg/admission/storage"
	"brainbot-hq/brainbot/pkg/capture"
	"brainbot-hq/brainbot/pkg/executor"
	"brainbot-hq/brainbot/pkg/providers"
	"brainbot-hq/brainbot/pkg/telemetry/logging"
)

const dayFormat = "2006-01-02"

// Executor runs an admitted query against a provider tier. pkg/executor's
// Router implements it.
type Executor interface {
	Execute(ctx context.Context, tier, question string) (*providers.Answer, error)
}

// Recorder is the metrics surface the controller reports to. The
// telemetry collector satisfies it through a thin adapter; tests pass nil.
type Recorder interface {
	RecordQuery(tier, outcome string, duration time.Duration)
	RecordCacheEviction(count int)
	UpdateCacheSize(size int)
	RecordSpend(model string, costUSD float64)
	UpdateBudgetRemaining(userID string, remainingUSD float64)
}

// Config contains the admission policy knobs.
type Config struct {
	// Cooldown is the minimum spacing between admitted queries per user.
	Cooldown time.Duration

	// DailyBudgetUSD caps recorded spend per user per calendar day.
	DailyBudgetUSD float64

	// CacheTTL is the freshness window for cached answers.
	CacheTTL time.Duration
}

// Controller decides, for each inbound query, whether to reject, serve
// from cache, or execute, and records outcomes. Checks run in fixed
// order: rate, budget, cache, then execution on a miss.
//
// Limit state mutates only on definite outcomes: a rejected query leaves
// the cooldown stamp untouched, spend is recorded only after successful
// execution, and a cache hit hands its cooldown stamp back since serving
// it consumed nothing.
type Controller struct {
	limiter  *ratelimit.Limiter
	ledger   *budget.Ledger
	cache    *cache.Cache
	executor Executor
	captures *capture.Service
	backend  storage.Backend
	metrics  Recorder
	logger   *slog.Logger

	// clock is swapped by tests.
	clock func() time.Time

	// persistWG tracks in-flight async snapshot writes.
	persistWG sync.WaitGroup
}

// NewController creates a controller. backend, captures, and metrics may
// be nil; the corresponding behavior (persistence, capture handling,
// instrumentation) is then disabled.
func NewController(cfg Config, exec Executor, captures *capture.Service, backend storage.Backend, metrics Recorder, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		limiter:  ratelimit.NewLimiter(cfg.Cooldown),
		ledger:   budget.NewLedger(cfg.DailyBudgetUSD),
		cache:    cache.New(cfg.CacheTTL),
		executor: exec,
		captures: captures,
		backend:  backend,
		metrics:  metrics,
		logger:   logger,
		clock:    time.Now,
	}
}

// HandleQuery runs one query through admission and execution.
func (c *Controller) HandleQuery(ctx context.Context, userID, tier, question string) *QueryResult {
	queryID := uuid.NewString()
	started := time.Now()
	now := c.clock()

	logger := c.logger.With(
		"query_id", queryID,
		"user", userID,
		"tier", tier,
	)

	// The same identity travels in ctx so executor and provider log
	// lines correlate with this query.
	ctx = logging.WithQueryID(ctx, queryID)
	ctx = logging.WithUser(ctx, userID)
	ctx = logging.WithTier(ctx, tier)

	result := c.admitAndExecute(ctx, logger, userID, tier, question, now)
	result.QueryID = queryID

	if c.metrics != nil {
		c.metrics.RecordQuery(tier, string(result.Outcome), time.Since(started))
		c.metrics.UpdateBudgetRemaining(userID, c.ledger.Remaining(userID, c.clock()))
		c.metrics.UpdateCacheSize(c.cache.Size())
	}

	logger.Info("query handled",
		"outcome", string(result.Outcome),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return result
}

func (c *Controller) admitAndExecute(ctx context.Context, logger *slog.Logger, userID, tier, question string, now time.Time) *QueryResult {
	// Rate check. The admitted stamp is provisionally set here; the
	// cache-hit path below restores it.
	priorAdmitted, hadPrior := c.limiter.LastAdmitted(userID)
	decision := c.limiter.Admit(userID, now)
	if !decision.Allowed {
		logger.Info("query rate limited", "wait_seconds", decision.WaitSeconds)
		return &QueryResult{
			Outcome: OutcomeRateLimited,
			Reason:  decision.Reason,
			Err:     ErrRateLimited,
		}
	}

	// Budget check. Gates on spend already recorded; the upcoming cost
	// is unknown until execution completes.
	status := c.ledger.Check(userID, now)
	if !status.Allowed {
		logger.Info("query over budget",
			"spent_usd", status.Spent,
			"cap_usd", status.Limit,
		)
		return &QueryResult{
			Outcome: OutcomeBudgetExceeded,
			Reason:  status.Reason,
			Err:     ErrBudgetExceeded,
		}
	}

	// Cache lookup. A hit consumed nothing, so the cooldown stamp taken
	// by the rate check is handed back.
	if answer, hit := c.cache.Get(userID, question, now); hit {
		if hadPrior {
			c.limiter.SetLastAdmitted(userID, priorAdmitted)
		}
		logger.Info("query served from cache")
		return &QueryResult{
			Outcome: OutcomeCacheHit,
			Answer:  answer,
			Cached:  true,
		}
	}

	answer, err := c.executor.Execute(ctx, tier, question)
	if err != nil {
		return c.executionFailure(logger, err)
	}

	// Success path: record spend, persist, cache.
	recordedAt := c.clock()
	c.ledger.Record(userID, answer.CostUSD, recordedAt)
	c.cache.Put(userID, question, answer, recordedAt)
	c.persistAsync(userID, recordedAt)

	if c.metrics != nil {
		c.metrics.RecordSpend(answer.Model, answer.CostUSD)
	}

	logger.Info("query answered",
		"model", answer.Model,
		"cost_usd", answer.CostUSD,
		"input_tokens", answer.Usage.InputTokens,
		"output_tokens", answer.Usage.OutputTokens,
	)

	return &QueryResult{
		Outcome: OutcomeAnswered,
		Answer:  answer,
	}
}

func (c *Controller) executionFailure(logger *slog.Logger, err error) *QueryResult {
	var timeoutErr *executor.TimeoutError
	if errors.As(err, &timeoutErr) {
		logger.Warn("query timed out", "elapsed", timeoutErr.Elapsed)
		return &QueryResult{
			Outcome: OutcomeTimeout,
			Reason:  timeoutErr.Error(),
			Err:     err,
		}
	}

	if errors.Is(err, executor.ErrRetriesExhausted) {
		logger.Warn("query retries exhausted", "error", err)
		return &QueryResult{
			Outcome: OutcomeRetriesExhausted,
			Reason:  "The answer service is unavailable right now. Try again in a minute.",
			Err:     err,
		}
	}

	logger.Error("query failed", "error", err)
	return &QueryResult{
		Outcome: OutcomeProviderError,
		Reason:  "The query failed. Check the logs for details.",
		Err:     err,
	}
}

// HandleCapture files a capture through the dedup-gated capture pipeline.
// Rate, budget, and cache do not apply to captures.
func (c *Controller) HandleCapture(ctx context.Context, content, forwardedFrom string, messageTimestamp int64) (*capture.Result, error) {
	return c.captures.Capture(ctx, content, forwardedFrom, messageTimestamp, c.clock())
}

// Spent returns the user's recorded spend for the current day.
func (c *Controller) Spent(userID string) float64 {
	return c.ledger.Spent(userID, c.clock())
}

// Remaining returns the user's remaining daily budget.
func (c *Controller) Remaining(userID string) float64 {
	return c.ledger.Remaining(userID, c.clock())
}

// BudgetCap returns the configured daily budget.
func (c *Controller) BudgetCap() float64 {
	return c.ledger.Cap()
}

// Prune removes expired cache entries and stale persisted snapshots. It
// is called by scheduled maintenance; admission itself evicts lazily.
func (c *Controller) Prune(ctx context.Context) (cacheRemoved, snapshotsRemoved int) {
	now := c.clock()

	cacheRemoved = c.cache.Prune(now)
	if c.metrics != nil {
		c.metrics.RecordCacheEviction(cacheRemoved)
		c.metrics.UpdateCacheSize(c.cache.Size())
	}

	if c.backend != nil {
		removed, err := c.backend.Prune(ctx, now.Add(-48*time.Hour))
		if err != nil {
			c.logger.Error("snapshot prune failed", "error", err)
		}
		snapshotsRemoved = removed
	}

	return cacheRemoved, snapshotsRemoved
}

// Restore loads persisted limit state into the limiter and ledger. Called
// once at startup, before any query is handled.
func (c *Controller) Restore(ctx context.Context) error {
	if c.backend == nil {
		return nil
	}

	states, err := c.backend.List(ctx)
	if err != nil {
		return err
	}

	now := c.clock()
	entries := make([]budget.Entry, 0, len(states))
	for _, state := range states {
		entries = append(entries, budget.Entry{
			UserID:   state.UserID,
			Day:      state.Day,
			SpentUSD: state.SpentUSD,
		})
		c.limiter.SetLastAdmitted(state.UserID, state.LastAdmitted)
	}
	c.ledger.Restore(entries, now)

	if len(states) > 0 {
		c.logger.Info("limit state restored", "users", len(states))
	}
	return nil
}

// persistAsync snapshots one user's limit state without blocking the
// query path. Best effort: a lost write degrades to a slightly more
// permissive state after restart.
func (c *Controller) persistAsync(userID string, now time.Time) {
	if c.backend == nil {
		return
	}

	lastAdmitted, _ := c.limiter.LastAdmitted(userID)
	state := &storage.LimitState{
		UserID:       userID,
		Day:          now.Format(dayFormat),
		SpentUSD:     c.ledger.Spent(userID, now),
		LastAdmitted: lastAdmitted,
		LastUpdated:  time.Now(),
	}

	c.persistWG.Add(1)
	go func() {
		defer c.persistWG.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := c.backend.Save(ctx, state); err != nil {
			c.logger.Error("limit state persist failed",
				"user", userID,
				"error", err,
			)
		}
	}()
}

// Close waits for in-flight snapshot writes to finish.
func (c *Controller) Close() error {
	c.persistWG.Wait()
	return nil
}
