package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"brainbot-hq/brainbot/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	return NewCollector(&config.MetricsConfig{
		Enabled:   true,
		Namespace: "brainbot",
	}, prometheus.NewRegistry())
}

func TestCollector_RecordQuery(t *testing.T) {
	c := newTestCollector(t)

	c.RecordQuery("ask", "answered", 1200*time.Millisecond)
	c.RecordQuery("ask", "answered", 800*time.Millisecond)
	c.RecordQuery("ask", "rate_limited", time.Millisecond)
	c.RecordQuery("quick", "cache_hit", time.Millisecond)

	if got := testutil.ToFloat64(c.queryMetrics.queriesTotal.WithLabelValues("ask", "answered")); got != 2 {
		t.Errorf("queries_total{ask,answered} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.queryMetrics.queriesTotal.WithLabelValues("quick", "cache_hit")); got != 1 {
		t.Errorf("queries_total{quick,cache_hit} = %v, want 1", got)
	}
}

func TestCollector_CacheMetrics(t *testing.T) {
	c := newTestCollector(t)

	c.UpdateCacheSize(7)
	c.RecordCacheEviction(3)
	c.RecordCacheEviction(0) // no-op

	if got := testutil.ToFloat64(c.queryMetrics.cacheSize); got != 7 {
		t.Errorf("cache_size = %v, want 7", got)
	}
	if got := testutil.ToFloat64(c.queryMetrics.cacheEvictions); got != 3 {
		t.Errorf("cache_evictions_total = %v, want 3", got)
	}
}

func TestCollector_ProviderMetrics(t *testing.T) {
	c := newTestCollector(t)

	c.RecordProviderCall("anthropic", "claude-haiku-4", 900*time.Millisecond, 2000, 500)
	c.RecordProviderError("anthropic", "rate_limit")

	if got := testutil.ToFloat64(c.providerMetrics.tokensTotal.WithLabelValues("anthropic", "claude-haiku-4", "input")); got != 2000 {
		t.Errorf("input tokens = %v", got)
	}
	if got := testutil.ToFloat64(c.providerMetrics.errorsTotal.WithLabelValues("anthropic", "rate_limit")); got != 1 {
		t.Errorf("errors_total = %v", got)
	}
}

func TestCollector_CostMetrics(t *testing.T) {
	c := newTestCollector(t)

	c.RecordSpend("anthropic", "claude-haiku-4", 0.60)
	c.RecordSpend("anthropic", "claude-haiku-4", 0.50)
	c.UpdateBudgetRemaining("user-1", 0.40)

	got := testutil.ToFloat64(c.costMetrics.spendTotal.WithLabelValues("anthropic", "claude-haiku-4"))
	if got < 1.09 || got > 1.11 {
		t.Errorf("spend_usd_total = %v, want 1.10", got)
	}
	if got := testutil.ToFloat64(c.costMetrics.budgetRemaining.WithLabelValues("user-1")); got != 0.40 {
		t.Errorf("budget_remaining_usd = %v", got)
	}
}

func TestCollector_CaptureMetrics(t *testing.T) {
	c := newTestCollector(t)

	c.RecordCapture("text")
	c.RecordCapture("forwarded")
	c.RecordDuplicateCapture()

	if got := testutil.ToFloat64(c.captureMetrics.capturesTotal.WithLabelValues("text")); got != 1 {
		t.Errorf("captures_total{text} = %v", got)
	}
	if got := testutil.ToFloat64(c.captureMetrics.duplicatesTotal); got != 1 {
		t.Errorf("capture_duplicates_total = %v", got)
	}
}

func TestCollector_DisabledIsNoOp(t *testing.T) {
	c := NewCollector(&config.MetricsConfig{
		Enabled:   false,
		Namespace: "brainbot",
	}, prometheus.NewRegistry())

	c.RecordQuery("ask", "answered", time.Second)
	c.RecordSpend("anthropic", "m", 1.0)

	if got := testutil.ToFloat64(c.queryMetrics.queriesTotal.WithLabelValues("ask", "answered")); got != 0 {
		t.Errorf("disabled collector recorded queries_total = %v", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := newTestCollector(t)
	c.RecordQuery("ask", "answered", time.Second)

	server := httptest.NewServer(c.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "brainbot_queries_total") {
		t.Error("exposition missing brainbot_queries_total")
	}
}
