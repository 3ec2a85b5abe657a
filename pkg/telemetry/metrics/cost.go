package metrics

import (
	"brainbot-hq/brainbot/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CostMetrics tracks dollar spend against the daily budget.
//
// Metrics:
//   - brainbot_spend_usd_total: Cumulative recorded spend
//   - brainbot_budget_remaining_usd: Remaining daily budget per user
type CostMetrics struct {
	spendTotal      *prometheus.CounterVec
	budgetRemaining *prometheus.GaugeVec
}

// NewCostMetrics creates and registers cost metrics with the provided registry.
func NewCostMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CostMetrics {
	cm := &CostMetrics{
		spendTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "spend_usd_total",
				Help:      "Cumulative spend recorded against daily budgets in USD",
			},
			[]string{"provider", "model"},
		),

		budgetRemaining: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "budget_remaining_usd",
				Help:      "Remaining daily budget per user in USD",
			},
			[]string{"user"},
		),
	}

	registry.MustRegister(
		cm.spendTotal,
		cm.budgetRemaining,
	)

	return cm
}

// RecordSpend records dollars charged for a completed query.
func (cm *CostMetrics) RecordSpend(provider, model string, costUSD float64) {
	if costUSD > 0 {
		cm.spendTotal.WithLabelValues(provider, model).Add(costUSD)
	}
}

// UpdateRemaining updates the remaining-budget gauge for a user.
func (cm *CostMetrics) UpdateRemaining(userID string, remainingUSD float64) {
	cm.budgetRemaining.WithLabelValues(userID).Set(remainingUSD)
}
