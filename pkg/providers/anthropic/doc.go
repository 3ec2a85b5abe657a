// Package anthropic implements the Anthropic provider adapter.
//
// This package provides an implementation of the providers.Provider
// interface for Anthropic's Messages API. The knowledge context is sent
// as the system prompt and the user's question as a single user message.
//
// Cost is computed from the response's token usage using a per-model
// pricing table; unknown models are priced at the highest known rate.
package anthropic
