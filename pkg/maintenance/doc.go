// Package maintenance runs the nightly housekeeping sweep: expired cache
// entries, stale capture-dedup records, and old persisted limit
// snapshots. Admission never depends on the sweep for correctness, it
// evicts lazily; the sweep only bounds memory and disk growth.
package maintenance
