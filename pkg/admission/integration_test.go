package admission

import (
	"context"
	"strings"
	"testing"
	"time"

	internal "brainbot-hq/brainbot/internal/providers"
	"brainbot-hq/brainbot/pkg/executor"
	"brainbot-hq/brainbot/pkg/providers"
)

// ============================================================================
// Controller + Router Integration
// ============================================================================

type fixedContext string

func (f fixedContext) Context() string { return string(f) }

// TestControllerWithRealRouter runs queries through the actual tier
// router and a scripted provider instead of a stubbed executor.
func TestControllerWithRealRouter(t *testing.T) {
	scripted := internal.NewScripted("scripted",
		internal.Step{Answer: &providers.Answer{
			Text:    "thorough answer",
			Model:   "claude-sonnet-4",
			Usage:   providers.TokenUsage{InputTokens: 500, OutputTokens: 100},
			CostUSD: 0.20,
		}},
	)
	fast := internal.NewScripted("fast") // no script: echoes the question

	router := executor.NewRouter(map[string]executor.Route{
		"ask":   {Provider: scripted, Model: "claude-sonnet-4", MaxAnswerTokens: 1024},
		"quick": {Provider: fast, Model: "gpt-4o-mini", MaxAnswerTokens: 256},
	}, fixedContext("## Vault notes"), executor.Config{
		RequestTimeout: time.Second,
		MaxAttempts:    1,
	})

	clock := newTestClock()
	ctrl := NewController(defaultConfig(), router, nil, nil, nil, nil)
	ctrl.clock = clock.Now

	res := ctrl.HandleQuery(context.Background(), "u1", "ask", "what matters today?")
	if res.Outcome != OutcomeAnswered {
		t.Fatalf("ask: Outcome = %s (err %v)", res.Outcome, res.Err)
	}
	if res.Answer.Text != "thorough answer" {
		t.Errorf("ask: Text = %q", res.Answer.Text)
	}
	if got := ctrl.Spent("u1"); got != 0.20 {
		t.Errorf("Spent = %.2f, want 0.20", got)
	}

	// The quick tier routes to the other provider, after the cooldown.
	clock.Advance(31 * time.Second)
	res = ctrl.HandleQuery(context.Background(), "u1", "quick", "summarize my notes")
	if res.Outcome != OutcomeAnswered {
		t.Fatalf("quick: Outcome = %s (err %v)", res.Outcome, res.Err)
	}
	if !strings.Contains(res.Answer.Text, "summarize my notes") {
		t.Errorf("quick: Text = %q, want echoed question", res.Answer.Text)
	}
	if scripted.CallCount() != 1 || fast.CallCount() != 1 {
		t.Errorf("provider calls = %d/%d, want 1/1", scripted.CallCount(), fast.CallCount())
	}

	// An unknown tier surfaces as a provider error, not a panic.
	clock.Advance(31 * time.Second)
	res = ctrl.HandleQuery(context.Background(), "u1", "deep", "q")
	if res.Outcome != OutcomeProviderError {
		t.Errorf("unknown tier: Outcome = %s", res.Outcome)
	}
}

// TestControllerDeadlineThroughRouter verifies a hung provider is cut off
// by the executor deadline and reported as a timeout outcome.
func TestControllerDeadlineThroughRouter(t *testing.T) {
	hung := internal.NewScripted("hung").WithDelay(time.Minute)

	router := executor.NewRouter(map[string]executor.Route{
		"ask": {Provider: hung, Model: "m"},
	}, nil, executor.Config{
		RequestTimeout: 50 * time.Millisecond,
		MaxAttempts:    1,
	})

	ctrl := NewController(defaultConfig(), router, nil, nil, nil, nil)

	res := ctrl.HandleQuery(context.Background(), "u1", "ask", "slow")
	if res.Outcome != OutcomeTimeout {
		t.Fatalf("Outcome = %s (err %v), want %s", res.Outcome, res.Err, OutcomeTimeout)
	}
	if !strings.HasPrefix(res.Reason, "query timed out after") {
		t.Errorf("Reason = %q", res.Reason)
	}
	if got := ctrl.Spent("u1"); got != 0 {
		t.Errorf("Spent = %.2f, want 0 after timeout", got)
	}
}
