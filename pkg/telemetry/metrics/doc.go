// Package metrics provides Prometheus instrumentation for Brainbot.
//
// The Collector aggregates four metric groups: query admission outcomes,
// provider call latency and token usage, dollar spend against daily
// budgets, and the note capture pipeline. All metrics live in a private
// registry exposed through Handler.
//
// When metrics are disabled in configuration every Record method is a
// no-op, so call sites never need to guard instrumentation.
package metrics
