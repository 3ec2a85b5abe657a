package metrics

import (
	"time"

	"brainbot-hq/brainbot/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics tracks provider API call behavior.
//
// Metrics:
//   - brainbot_provider_call_duration_seconds: Provider call latency histogram
//   - brainbot_provider_tokens_total: Tokens processed by provider, model, type
//   - brainbot_provider_errors_total: Provider errors by type
type ProviderMetrics struct {
	callDuration *prometheus.HistogramVec
	tokensTotal  *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		callDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_call_duration_seconds",
				Help:      "Duration of provider API calls in seconds",
				Buckets:   []float64{0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"provider", "model"},
		),

		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_tokens_total",
				Help:      "Total number of tokens processed",
			},
			[]string{"provider", "model", "type"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_errors_total",
				Help:      "Total number of provider errors by type",
			},
			[]string{"provider", "type"},
		),
	}

	registry.MustRegister(
		pm.callDuration,
		pm.tokensTotal,
		pm.errorsTotal,
	)

	return pm
}

// RecordCall records one provider call's latency and token usage.
func (pm *ProviderMetrics) RecordCall(provider, model string, duration time.Duration, inputTokens, outputTokens int) {
	pm.callDuration.WithLabelValues(provider, model).Observe(duration.Seconds())
	if inputTokens > 0 {
		pm.tokensTotal.WithLabelValues(provider, model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		pm.tokensTotal.WithLabelValues(provider, model, "output").Add(float64(outputTokens))
	}
}

// RecordError records a failed provider call.
func (pm *ProviderMetrics) RecordError(provider, errorType string) {
	pm.errorsTotal.WithLabelValues(provider, errorType).Inc()
}
