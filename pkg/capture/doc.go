// Package capture files inbound messages as markdown notes in the vault
// inbox. The pipeline is dedup check, note formatting, object store
// write, capture-log insert; only the store write is load-bearing, the
// log exists to serve /status cheaply.
package capture
