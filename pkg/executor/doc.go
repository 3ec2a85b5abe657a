// Package executor runs admitted queries against answer providers.
//
// The Runner owns the execution policy: one deadline spanning all
// attempts, retry with exponential backoff on transient failures, and
// immediate return on permanent ones. Provider adapters are single-shot;
// retry decisions live here, driven by providers.IsTransient.
//
// The Router sits above runners and dispatches by tier, attaching the
// current knowledge context to each request.
package executor
