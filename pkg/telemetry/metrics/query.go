package metrics

import (
	"time"

	"brainbot-hq/brainbot/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// QueryMetrics tracks the admission controller's view of queries.
//
// Metrics:
//   - brainbot_queries_total: Query count by tier and outcome
//   - brainbot_query_duration_seconds: End-to-end query duration histogram
//   - brainbot_cache_size: Current answer cache size
//   - brainbot_cache_evictions_total: Answers evicted from the cache
type QueryMetrics struct {
	queriesTotal   *prometheus.CounterVec
	queryDuration  *prometheus.HistogramVec
	cacheSize      prometheus.Gauge
	cacheEvictions prometheus.Counter
}

// NewQueryMetrics creates and registers query metrics with the provided registry.
func NewQueryMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *QueryMetrics {
	qm := &QueryMetrics{
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "queries_total",
				Help:      "Total number of queries by tier and admission outcome",
			},
			[]string{"tier", "outcome"},
		),

		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "query_duration_seconds",
				Help:      "End-to-end query duration in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"tier"},
		),

		cacheSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "cache_size",
				Help:      "Current number of entries in the answer cache",
			},
		),

		cacheEvictions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "cache_evictions_total",
				Help:      "Total number of answers evicted from the cache",
			},
		),
	}

	registry.MustRegister(
		qm.queriesTotal,
		qm.queryDuration,
		qm.cacheSize,
		qm.cacheEvictions,
	)

	return qm
}

// RecordQuery records one query's outcome and duration.
func (qm *QueryMetrics) RecordQuery(tier, outcome string, duration time.Duration) {
	qm.queriesTotal.WithLabelValues(tier, outcome).Inc()
	qm.queryDuration.WithLabelValues(tier).Observe(duration.Seconds())
}

// RecordEviction records entries removed from the answer cache.
func (qm *QueryMetrics) RecordEviction(count int) {
	if count > 0 {
		qm.cacheEvictions.Add(float64(count))
	}
}

// UpdateCacheSize updates the cache size gauge.
func (qm *QueryMetrics) UpdateCacheSize(size int) {
	qm.cacheSize.Set(float64(size))
}
