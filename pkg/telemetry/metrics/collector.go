package metrics

import (
	"time"

	"brainbot-hq/brainbot/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the orchestrator for all Prometheus metrics in Brainbot.
// It manages metric registration and provides a unified interface for
// recording metrics across the admission controller, executor, and
// capture pipeline.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Query admission and execution metrics
	queryMetrics *QueryMetrics

	// Provider call metrics
	providerMetrics *ProviderMetrics

	// Spend tracking metrics
	costMetrics *CostMetrics

	// Capture pipeline metrics
	captureMetrics *CaptureMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is used.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "brainbot"
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.queryMetrics = NewQueryMetrics(cfg, registry)
	c.providerMetrics = NewProviderMetrics(cfg, registry)
	c.costMetrics = NewCostMetrics(cfg, registry)
	c.captureMetrics = NewCaptureMetrics(cfg, registry)

	return c
}

// RecordQuery records a query's admission outcome and end-to-end duration.
//
// The outcome is the terminal state of the query: "answered", "cache_hit",
// "rate_limited", "budget_exceeded", "timeout", "retries_exhausted", or
// "provider_error".
func (c *Collector) RecordQuery(tier, outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.queryMetrics.RecordQuery(tier, outcome, duration)
}

// RecordCacheEviction records entries removed from the answer cache.
func (c *Collector) RecordCacheEviction(count int) {
	if !c.config.Enabled {
		return
	}
	c.queryMetrics.RecordEviction(count)
}

// UpdateCacheSize updates the current answer cache size gauge.
func (c *Collector) UpdateCacheSize(size int) {
	if !c.config.Enabled {
		return
	}
	c.queryMetrics.UpdateCacheSize(size)
}

// RecordProviderCall records the latency and token usage of one provider
// call.
func (c *Collector) RecordProviderCall(provider, model string, duration time.Duration, inputTokens, outputTokens int) {
	if !c.config.Enabled {
		return
	}
	c.providerMetrics.RecordCall(provider, model, duration, inputTokens, outputTokens)
}

// RecordProviderError records a failed provider call. errorType is a
// failure class from providers.ErrorClass.
func (c *Collector) RecordProviderError(provider, errorType string) {
	if !c.config.Enabled {
		return
	}
	c.providerMetrics.RecordError(provider, errorType)
}

// RecordSpend records dollars charged against a user's daily budget.
func (c *Collector) RecordSpend(provider, model string, costUSD float64) {
	if !c.config.Enabled {
		return
	}
	c.costMetrics.RecordSpend(provider, model, costUSD)
}

// UpdateBudgetRemaining updates the remaining-budget gauge for a user.
func (c *Collector) UpdateBudgetRemaining(userID string, remainingUSD float64) {
	if !c.config.Enabled {
		return
	}
	c.costMetrics.UpdateRemaining(userID, remainingUSD)
}

// RecordCapture records a filed capture.
func (c *Collector) RecordCapture(kind string) {
	if !c.config.Enabled {
		return
	}
	c.captureMetrics.RecordCapture(kind)
}

// RecordDuplicateCapture records a capture suppressed as a redelivery.
func (c *Collector) RecordDuplicateCapture() {
	if !c.config.Enabled {
		return
	}
	c.captureMetrics.RecordDuplicate()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
