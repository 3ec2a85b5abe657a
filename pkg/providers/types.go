package providers

import (
	"context"
	"time"
)

// AnswerRequest is the provider-agnostic request for answering a question
// against the user's knowledge context.
type AnswerRequest struct {
	// Question is the user's question text.
	Question string

	// Context is the pre-aggregated knowledge context handed to the
	// provider as grounding material. May be empty.
	Context string

	// Model is the provider-specific model identifier.
	Model string

	// MaxAnswerTokens bounds the generated answer length.
	MaxAnswerTokens int
}

// Answer is the provider-agnostic result of a successful query.
type Answer struct {
	// Text is the generated answer text.
	Text string

	// Model is the model that produced the answer, as reported by the
	// provider.
	Model string

	// Usage contains token accounting for the request.
	Usage TokenUsage

	// CostUSD is the computed cost of the request in US dollars.
	CostUSD float64
}

// TokenUsage contains token accounting for a single request.
type TokenUsage struct {
	// InputTokens is the number of tokens in the prompt.
	InputTokens int

	// OutputTokens is the number of tokens in the generated answer.
	OutputTokens int
}

// TotalTokens returns the combined input and output token count.
func (u TokenUsage) TotalTokens() int {
	return u.InputTokens + u.OutputTokens
}

// Provider is the interface all answer provider adapters implement.
type Provider interface {
	// Name returns the provider's configured name.
	Name() string

	// GenerateAnswer sends a single answer request to the provider.
	// It does not retry; transient-failure handling belongs to the caller.
	GenerateAnswer(ctx context.Context, req *AnswerRequest) (*Answer, error)

	// Close releases the provider's resources.
	Close() error
}

// ClientConfig contains the transport settings for an HTTP provider
// adapter.
type ClientConfig struct {
	// Name is the provider's configured name, used in errors and logs.
	Name string

	// BaseURL is the base URL for the provider's API endpoint.
	BaseURL string

	// APIKey is the authentication key for the provider.
	APIKey string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections in the pool.
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum number of idle connections per host.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection stays in the pool.
	IdleConnTimeout time.Duration
}

// ModelPricing is the per-token pricing for one model, expressed in USD
// per million tokens.
type ModelPricing struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost computes the dollar cost of the given usage under this pricing.
func (p ModelPricing) Cost(usage TokenUsage) float64 {
	return float64(usage.InputTokens)*p.InputPerMTok/1e6 +
		float64(usage.OutputTokens)*p.OutputPerMTok/1e6
}
