// Package storage persists admission limit state across restarts.
//
// Two backends are provided: MemoryBackend for tests and ephemeral
// deployments, and SQLiteBackend for durable single-instance use. The
// stored rows are snapshots restored into the in-memory limiter and
// ledger at startup; admission decisions never read the backend on the
// hot path.
package storage
