// Package logging provides structured logging for Brainbot built on
// log/slog.
//
// It owns handler construction (JSON or text output, level filtering) and
// context helpers for attaching query-scoped fields (query ID, user, tier,
// provider, model) so per-query log lines share a consistent shape.
package logging
