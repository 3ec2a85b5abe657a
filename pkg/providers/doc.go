// Package providers implements a unified abstraction layer for answer
// providers.
//
// # Overview
//
// Each provider adapter (anthropic, openai) turns a provider-agnostic
// AnswerRequest into the provider's wire format, sends it over the shared
// Client transport, and maps the response back into an Answer with token
// usage and computed cost.
//
// # Error Model
//
// Failures surface as typed errors (AuthError, RateLimitError,
// ProviderError, ParseError) so callers can distinguish permanent
// failures from transient ones. IsTransient encodes that distinction;
// adapters themselves never retry.
//
// # Cost Accounting
//
// Adapters carry a per-model pricing table and compute Answer.CostUSD
// from the provider's reported token usage. The admission layer charges
// this figure against the daily budget after the fact: budgets gate
// future queries, never the one in flight.
package providers
