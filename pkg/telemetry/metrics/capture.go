package metrics

import (
	"brainbot-hq/brainbot/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CaptureMetrics tracks the note capture pipeline.
//
// Metrics:
//   - brainbot_captures_total: Notes filed by kind ("text", "forwarded")
//   - brainbot_capture_duplicates_total: Redeliveries suppressed by dedup
type CaptureMetrics struct {
	capturesTotal   *prometheus.CounterVec
	duplicatesTotal prometheus.Counter
}

// NewCaptureMetrics creates and registers capture metrics with the provided registry.
func NewCaptureMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CaptureMetrics {
	cm := &CaptureMetrics{
		capturesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "captures_total",
				Help:      "Total number of notes filed to the inbox",
			},
			[]string{"kind"},
		),

		duplicatesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "capture_duplicates_total",
				Help:      "Total number of captures suppressed as redeliveries",
			},
		),
	}

	registry.MustRegister(
		cm.capturesTotal,
		cm.duplicatesTotal,
	)

	return cm
}

// RecordCapture records a filed note.
func (cm *CaptureMetrics) RecordCapture(kind string) {
	cm.capturesTotal.WithLabelValues(kind).Inc()
}

// RecordDuplicate records a suppressed redelivery.
func (cm *CaptureMetrics) RecordDuplicate() {
	cm.duplicatesTotal.Inc()
}
