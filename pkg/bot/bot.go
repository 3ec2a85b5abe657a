package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"brainbot-hq/brainbot/pkg/admission"
	"brainbot-hq/brainbot/pkg/capture"
)

// Reactions signal capture outcomes without a reply message.
const (
	reactionSaved     = "👍"
	reactionDuplicate = "👀"
	reactionFailed    = "👎"
)

const (
	defaultMaxResponseChars = 3900
	defaultTypingInterval   = 4 * time.Second
)

// Tier names the bot routes to. They must exist in the executor's tier
// table.
const (
	TierAsk   = "ask"
	TierQuick = "quick"
)

// QueryService is the admission surface the bot drives. The admission
// Controller implements it.
type QueryService interface {
	HandleQuery(ctx context.Context, userID, tier, question string) *admission.QueryResult
	HandleCapture(ctx context.Context, content, forwardedFrom string, messageTimestamp int64) (*capture.Result, error)
	Spent(userID string) float64
	Remaining(userID string) float64
}

// CaptureLog is the read side of the capture log, serving /status. The
// capture package's Log implements it.
type CaptureLog interface {
	Recent(ctx context.Context, limit int) ([]capture.Entry, error)
	TodayCount(ctx context.Context, now time.Time) (int, error)
}

// Config holds the bot's message-handling settings.
type Config struct {
	// AuthorizedUser is the only user ID the bot talks to. Messages from
	// anyone else are dropped.
	AuthorizedUser string

	// MaxResponseChars caps outbound answer length before truncation.
	MaxResponseChars int

	// TypingInterval is how often the typing indicator is refreshed
	// while a query runs.
	TypingInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxResponseChars <= 0 {
		c.MaxResponseChars = defaultMaxResponseChars
	}
	if c.TypingInterval <= 0 {
		c.TypingInterval = defaultTypingInterval
	}
	return c
}

// Bot routes inbound messages: commands to their handlers, everything
// else to capture. It owns no admission state of its own.
type Bot struct {
	cfg       Config
	svc       QueryService
	captures  CaptureLog
	transport Transport
	logger    *slog.Logger

	clock func() time.Time

	// lastError is surfaced by /status and cleared by the next
	// successful capture.
	mu        sync.Mutex
	lastError string
}

// New creates a bot. captures may be nil, in which case /status omits
// capture history.
func New(cfg Config, svc QueryService, captures CaptureLog, transport Transport, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		cfg:       cfg.withDefaults(),
		svc:       svc,
		captures:  captures,
		transport: transport,
		logger:    logger,
		clock:     time.Now,
	}
}

// HandleMessage processes one inbound message end to end. Errors from the
// transport are returned; handler-level failures are reported to the user
// and logged, not returned.
func (b *Bot) HandleMessage(ctx context.Context, msg Message) error {
	if msg.UserID != b.cfg.AuthorizedUser {
		b.logger.Warn("unauthorized message dropped", "user", msg.UserID)
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}

	if !strings.HasPrefix(text, "/") {
		return b.handleCapture(ctx, msg, text)
	}

	command, args := splitCommand(text)
	switch command {
	case "/ask", "/a":
		return b.handleQuery(ctx, msg, TierAsk, args)
	case "/quick", "/q":
		return b.handleQuery(ctx, msg, TierQuick, args)
	case "/status":
		return b.handleStatus(ctx, msg)
	case "/help":
		_, err := b.transport.SendMessage(ctx, helpText)
		return err
	default:
		_, err := b.transport.SendMessage(ctx, "Unknown command. Send /help for usage.")
		return err
	}
}

// splitCommand separates "/cmd rest of text" into the command token and
// its argument string.
func splitCommand(text string) (command, args string) {
	command, args, _ = strings.Cut(text, " ")
	return strings.ToLower(command), strings.TrimSpace(args)
}

func (b *Bot) handleQuery(ctx context.Context, msg Message, tier, question string) error {
	if question == "" {
		usage := "Usage: /ask <your question>"
		if tier == TierQuick {
			usage = "Usage: /quick <your question>"
		}
		_, err := b.transport.SendMessage(ctx, usage)
		return err
	}

	progress := "🔍 Searching vault..."
	if tier == TierQuick {
		progress = "⚡ Searching vault..."
	}
	progressID, err := b.transport.SendMessage(ctx, progress)
	if err != nil {
		return err
	}

	stopTyping := b.keepTyping(ctx)
	result := b.svc.HandleQuery(ctx, msg.UserID, tier, question)
	stopTyping()

	switch result.Outcome {
	case admission.OutcomeAnswered:
		return b.transport.EditMessage(ctx, progressID, formatAnswer(result.Answer, b.cfg.MaxResponseChars))
	case admission.OutcomeCacheHit:
		return b.transport.EditMessage(ctx, progressID, formatCachedAnswer(result.Answer, b.cfg.MaxResponseChars))
	case admission.OutcomeRateLimited:
		return b.transport.EditMessage(ctx, progressID, "⏳ "+result.Reason)
	case admission.OutcomeBudgetExceeded:
		return b.transport.EditMessage(ctx, progressID, "💰 "+result.Reason)
	default:
		b.setLastError(result.Reason)
		return b.transport.EditMessage(ctx, progressID, "❌ Error: "+clip(result.Reason, 200))
	}
}

func (b *Bot) handleCapture(ctx context.Context, msg Message, content string) error {
	_, err := b.svc.HandleCapture(ctx, content, msg.ForwardedFrom, msg.Timestamp)
	if errors.Is(err, capture.ErrDuplicate) {
		return b.transport.React(ctx, msg.ID, reactionDuplicate)
	}
	if err != nil {
		b.setLastError(err.Error())
		b.logger.Error("capture failed", "error", err)
		return b.transport.React(ctx, msg.ID, reactionFailed)
	}

	b.setLastError("")
	return b.transport.React(ctx, msg.ID, reactionSaved)
}

func (b *Bot) handleStatus(ctx context.Context, msg Message) error {
	now := b.clock()

	var todayCount int
	var recent []capture.Entry
	if b.captures != nil {
		var err error
		if todayCount, err = b.captures.TodayCount(ctx, now); err != nil {
			b.logger.Error("status: today count failed", "error", err)
		}
		if recent, err = b.captures.Recent(ctx, 5); err != nil {
			b.logger.Error("status: recent captures failed", "error", err)
		}
	}

	report := statusReport(statusData{
		TodayCount: todayCount,
		SpentUSD:   b.svc.Spent(msg.UserID),
		RemainUSD:  b.svc.Remaining(msg.UserID),
		Recent:     recent,
		LastError:  b.lastErrorText(),
	})

	_, err := b.transport.SendMessage(ctx, report)
	return err
}

// keepTyping refreshes the typing indicator until the returned stop
// function is called.
func (b *Bot) keepTyping(ctx context.Context) (stop func()) {
	typingCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(b.cfg.TypingInterval)
		defer ticker.Stop()

		if err := b.transport.SendTyping(typingCtx); err != nil {
			b.logger.Debug("typing indicator failed", "error", err)
		}
		for {
			select {
			case <-typingCtx.Done():
				return
			case <-ticker.C:
				if err := b.transport.SendTyping(typingCtx); err != nil {
					b.logger.Debug("typing indicator failed", "error", err)
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (b *Bot) setLastError(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastError = text
}

func (b *Bot) lastErrorText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastError
}
