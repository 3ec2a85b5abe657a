package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"brainbot-hq/brainbot/pkg/admission"
	"brainbot-hq/brainbot/pkg/capture"
	"brainbot-hq/brainbot/pkg/providers"
)

// ============================================================================
// Test Helpers
// ============================================================================

// fakeService returns canned admission results and records the calls it
// receives.
type fakeService struct {
	queryResult *admission.QueryResult
	captureErr  error

	lastTier     string
	lastQuestion string
	queryCalls   int
	captureCalls int
}

func (s *fakeService) HandleQuery(ctx context.Context, userID, tier, question string) *admission.QueryResult {
	s.queryCalls++
	s.lastTier = tier
	s.lastQuestion = question
	return s.queryResult
}

func (s *fakeService) HandleCapture(ctx context.Context, content, forwardedFrom string, messageTimestamp int64) (*capture.Result, error) {
	s.captureCalls++
	if s.captureErr != nil {
		return nil, s.captureErr
	}
	return &capture.Result{Key: "inbox/note.md"}, nil
}

func (s *fakeService) Spent(userID string) float64     { return 0.35 }
func (s *fakeService) Remaining(userID string) float64 { return 0.65 }

func newTestBot(svc QueryService) (*Bot, *MemoryTransport) {
	transport := NewMemoryTransport()
	cfg := Config{
		AuthorizedUser: "owner",
		TypingInterval: 10 * time.Millisecond,
	}
	return New(cfg, svc, nil, transport, nil), transport
}

func ownerMessage(text string) Message {
	return Message{ID: "in1", UserID: "owner", Text: text, Timestamp: 1700000000}
}

func answered(text string) *admission.QueryResult {
	return &admission.QueryResult{
		Outcome: admission.OutcomeAnswered,
		Answer: &providers.Answer{
			Text:    text,
			Model:   "claude-sonnet-4",
			Usage:   providers.TokenUsage{InputTokens: 1200, OutputTokens: 345},
			CostUSD: 0.0123,
		},
	}
}

// ============================================================================
// Authorization and Routing
// ============================================================================

func TestUnauthorizedMessageDropped(t *testing.T) {
	svc := &fakeService{queryResult: answered("hi")}
	b, transport := newTestBot(svc)

	msg := Message{ID: "in1", UserID: "stranger", Text: "/ask anything"}
	if err := b.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage() error: %v", err)
	}
	if svc.queryCalls != 0 || svc.captureCalls != 0 {
		t.Error("service was called for an unauthorized user")
	}
	if len(transport.Sent()) != 0 {
		t.Errorf("transport traffic for unauthorized user: %v", transport.Sent())
	}
}

func TestPlainTextBecomesCapture(t *testing.T) {
	svc := &fakeService{}
	b, transport := newTestBot(svc)

	if err := b.HandleMessage(context.Background(), ownerMessage("remember to buy milk")); err != nil {
		t.Fatalf("HandleMessage() error: %v", err)
	}
	if svc.captureCalls != 1 {
		t.Fatalf("captureCalls = %d, want 1", svc.captureCalls)
	}
	if got := transport.Reaction("in1"); got != "👍" {
		t.Errorf("reaction = %q, want 👍", got)
	}
}

func TestDuplicateCaptureGetsEyes(t *testing.T) {
	svc := &fakeService{captureErr: capture.ErrDuplicate}
	b, transport := newTestBot(svc)

	if err := b.HandleMessage(context.Background(), ownerMessage("same note again")); err != nil {
		t.Fatalf("HandleMessage() error: %v", err)
	}
	if got := transport.Reaction("in1"); got != "👀" {
		t.Errorf("reaction = %q, want 👀", got)
	}
}

func TestCommandRoutesToTier(t *testing.T) {
	tests := []struct {
		text string
		tier string
	}{
		{"/ask what is up", TierAsk},
		{"/a what is up", TierAsk},
		{"/quick what is up", TierQuick},
		{"/q what is up", TierQuick},
		{"/ASK case insensitive", TierAsk},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			svc := &fakeService{queryResult: answered("fine")}
			b, _ := newTestBot(svc)
			if err := b.HandleMessage(context.Background(), ownerMessage(tt.text)); err != nil {
				t.Fatalf("HandleMessage() error: %v", err)
			}
			if svc.lastTier != tt.tier {
				t.Errorf("tier = %q, want %q", svc.lastTier, tt.tier)
			}
		})
	}
}

func TestQueryWithoutQuestionSendsUsage(t *testing.T) {
	svc := &fakeService{}
	b, transport := newTestBot(svc)

	if err := b.HandleMessage(context.Background(), ownerMessage("/ask")); err != nil {
		t.Fatalf("HandleMessage() error: %v", err)
	}
	if svc.queryCalls != 0 {
		t.Error("query ran with an empty question")
	}
	if got := transport.LastSent(); got != "Usage: /ask <your question>" {
		t.Errorf("sent = %q", got)
	}
}

func TestUnknownCommand(t *testing.T) {
	svc := &fakeService{}
	b, transport := newTestBot(svc)

	if err := b.HandleMessage(context.Background(), ownerMessage("/frobnicate")); err != nil {
		t.Fatalf("HandleMessage() error: %v", err)
	}
	if got := transport.LastSent(); !strings.Contains(got, "/help") {
		t.Errorf("sent = %q, want pointer to /help", got)
	}
}

func TestHelp(t *testing.T) {
	svc := &fakeService{}
	b, transport := newTestBot(svc)

	if err := b.HandleMessage(context.Background(), ownerMessage("/help")); err != nil {
		t.Fatalf("HandleMessage() error: %v", err)
	}
	got := transport.LastSent()
	for _, want := range []string{"/ask", "/quick", "/status"} {
		if !strings.Contains(got, want) {
			t.Errorf("help text missing %q", want)
		}
	}
}

// ============================================================================
// Query Replies
// ============================================================================

func TestAnsweredQueryEditsProgressMessage(t *testing.T) {
	svc := &fakeService{queryResult: answered("Go is a language.")}
	b, transport := newTestBot(svc)

	if err := b.HandleMessage(context.Background(), ownerMessage("/ask what is go")); err != nil {
		t.Fatalf("HandleMessage() error: %v", err)
	}

	sent := transport.Sent()
	if len(sent) != 1 || !strings.Contains(sent[0], "Searching vault") {
		t.Fatalf("progress message = %v", sent)
	}
	final := transport.Edit("m1")
	if !strings.HasPrefix(final, "Go is a language.") {
		t.Errorf("final = %q", final)
	}
	if !strings.Contains(final, "sonnet-4 | 1,200→345 tok | $0.012") {
		t.Errorf("trailer missing or wrong: %q", final)
	}
	if transport.TypingCount() < 1 {
		t.Error("no typing indicator sent")
	}
}

func TestCachedQueryMarked(t *testing.T) {
	res := answered("Cached answer.")
	res.Outcome = admission.OutcomeCacheHit
	res.Cached = true
	svc := &fakeService{queryResult: res}
	b, transport := newTestBot(svc)

	if err := b.HandleMessage(context.Background(), ownerMessage("/q same question")); err != nil {
		t.Fatalf("HandleMessage() error: %v", err)
	}
	final := transport.Edit("m1")
	if !strings.HasSuffix(final, "_[Cached result]_") {
		t.Errorf("final = %q, want cached marker suffix", final)
	}
	if strings.Contains(final, "tok |") {
		t.Errorf("cached reply carries a cost trailer: %q", final)
	}
}

func TestRejectionReplies(t *testing.T) {
	tests := []struct {
		name   string
		result *admission.QueryResult
		want   string
	}{
		{
			name: "rate limited",
			result: &admission.QueryResult{
				Outcome: admission.OutcomeRateLimited,
				Reason:  "Please wait 25s before next query.",
			},
			want: "⏳ Please wait 25s before next query.",
		},
		{
			name: "budget exceeded",
			result: &admission.QueryResult{
				Outcome: admission.OutcomeBudgetExceeded,
				Reason:  "Daily budget ($1.00) exceeded.",
			},
			want: "💰 Daily budget ($1.00) exceeded.",
		},
		{
			name: "timeout",
			result: &admission.QueryResult{
				Outcome: admission.OutcomeTimeout,
				Reason:  "query timed out after 25s",
			},
			want: "❌ Error: query timed out after 25s",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{queryResult: tt.result}
			b, transport := newTestBot(svc)
			if err := b.HandleMessage(context.Background(), ownerMessage("/ask q")); err != nil {
				t.Fatalf("HandleMessage() error: %v", err)
			}
			if got := transport.Edit("m1"); got != tt.want {
				t.Errorf("reply = %q, want %q", got, tt.want)
			}
		})
	}
}

// ============================================================================
// Status
// ============================================================================

func TestStatusReportsBudgetAndLastError(t *testing.T) {
	svc := &fakeService{queryResult: &admission.QueryResult{
		Outcome: admission.OutcomeTimeout,
		Reason:  "query timed out after 25s",
	}}
	b, transport := newTestBot(svc)

	if err := b.HandleMessage(context.Background(), ownerMessage("/status")); err != nil {
		t.Fatalf("HandleMessage() error: %v", err)
	}
	got := transport.LastSent()
	if !strings.Contains(got, "$0.35 spent / $0.65 remaining") {
		t.Errorf("status missing budget line: %q", got)
	}
	if !strings.Contains(got, "No errors") {
		t.Errorf("status should report no errors: %q", got)
	}

	// A failed query is surfaced by the next /status.
	if err := b.HandleMessage(context.Background(), ownerMessage("/ask slow one")); err != nil {
		t.Fatalf("HandleMessage() error: %v", err)
	}
	if err := b.HandleMessage(context.Background(), ownerMessage("/status")); err != nil {
		t.Fatalf("HandleMessage() error: %v", err)
	}
	if got := transport.LastSent(); !strings.Contains(got, "Last error:* query timed out after 25s") {
		t.Errorf("status missing last error: %q", got)
	}

	// A successful capture clears it again.
	svc.captureErr = nil
	if err := b.HandleMessage(context.Background(), ownerMessage("note to self")); err != nil {
		t.Fatalf("HandleMessage() error: %v", err)
	}
	if err := b.HandleMessage(context.Background(), ownerMessage("/status")); err != nil {
		t.Fatalf("HandleMessage() error: %v", err)
	}
	if got := transport.LastSent(); !strings.Contains(got, "No errors") {
		t.Errorf("status should be clear after a good capture: %q", got)
	}
}

// ============================================================================
// Formatting
// ============================================================================

func TestFormatAnswerTruncation(t *testing.T) {
	long := strings.Repeat("x", 4000)
	got := formatAnswer(&providers.Answer{
		Text:  long,
		Model: "claude-sonnet-4",
		Usage: providers.TokenUsage{InputTokens: 1, OutputTokens: 1},
	}, 3900)
	if !strings.Contains(got, "_[Truncated]_") {
		t.Error("long answer not marked truncated")
	}
	if strings.Count(got, "x") != 3900 {
		t.Errorf("kept %d chars, want 3900", strings.Count(got, "x"))
	}

	short := formatAnswer(&providers.Answer{Text: "ok", Model: "m"}, 3900)
	if strings.Contains(short, "Truncated") {
		t.Error("short answer marked truncated")
	}
}

func TestShortModel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"claude-sonnet-4", "sonnet-4"},
		{"claude-3-5-haiku-20241022", "3-5-haiku"},
		{"gpt-4o-mini", "gpt-4o-mini"},
		{"gpt-4o-2024-08-06", "gpt-4o-2024-08-06"},
	}
	for _, tt := range tests {
		if got := shortModel(tt.in); got != tt.want {
			t.Errorf("shortModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := groupThousands(tt.in); got != tt.want {
			t.Errorf("groupThousands(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
