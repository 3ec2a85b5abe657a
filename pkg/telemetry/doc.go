// Package telemetry provides observability for Brainbot.
//
// # Components
//
//   - logging: Structured logging built on log/slog
//   - metrics: Prometheus metrics collection and exposition
//
// # Usage
//
//	logger, err := logging.New(&cfg.Telemetry.Logging)
//	logger.Info("query admitted", "user", userID, "query_id", id)
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordQueryOutcome("answered")
package telemetry
