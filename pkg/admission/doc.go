// Package admission decides whether each inbound query runs, is answered
// from cache, or is rejected, and records the outcome.
//
// The Controller composes the cooldown limiter, the daily budget ledger,
// and the TTL answer cache, and runs them in a fixed order: rate, budget,
// cache, execution. Rejections carry the user-facing reason text; only a
// successful execution records spend and populates the cache. When a
// storage backend is configured, per-user limit state is snapshotted
// asynchronously after each answered query and restored at startup, so
// restarts do not reset the daily budget.
package admission
