// Package openai implements the OpenAI provider adapter.
//
// This package provides an implementation of the providers.Provider
// interface for OpenAI's Chat Completions API. The knowledge context is
// sent as a system message ahead of the user's question.
package openai
