package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"brainbot-hq/brainbot/pkg/providers"
)

// Provider is the Anthropic provider adapter.
// It implements the providers.Provider interface for Anthropic's Messages API.
type Provider struct {
	*providers.Client
}

const (
	// DefaultAnthropicVersion is the API version to use
	DefaultAnthropicVersion = "2023-06-01"
)

// pricing is USD per million tokens, keyed by model identifier prefix.
var pricing = map[string]providers.ModelPricing{
	"claude-opus":   {InputPerMTok: 15.00, OutputPerMTok: 75.00},
	"claude-sonnet": {InputPerMTok: 3.00, OutputPerMTok: 15.00},
	"claude-haiku":  {InputPerMTok: 0.80, OutputPerMTok: 4.00},
}

// defaultPricing is used for models absent from the table, priced at the
// most expensive rate so budgets err on the safe side.
var defaultPricing = providers.ModelPricing{InputPerMTok: 15.00, OutputPerMTok: 75.00}

// NewProvider creates a new Anthropic provider instance.
func NewProvider(config providers.ClientConfig) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "anthropic",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = "https://api.anthropic.com"
	}

	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for Anthropic",
		}
	}

	p := &Provider{
		Client: providers.NewClient(config),
	}

	slog.Info("Anthropic provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
	)

	return p, nil
}

// GenerateAnswer sends an answer request to Anthropic's Messages API.
func (p *Provider) GenerateAnswer(ctx context.Context, req *providers.AnswerRequest) (*providers.Answer, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	anthropicReq := transformRequest(req)

	url := fmt.Sprintf("%s/v1/messages", p.Config().BaseURL)
	headers := map[string]string{
		"x-api-key":         p.Config().APIKey,
		"anthropic-version": DefaultAnthropicVersion,
		"Content-Type":      "application/json",
	}

	var anthropicResp messagesResponse
	if err := p.DoJSON(ctx, "POST", url, anthropicReq, &anthropicResp, headers); err != nil {
		return nil, err
	}

	answer, err := transformResponse(&anthropicResp)
	if err != nil {
		return nil, &providers.ParseError{
			Provider: p.Name(),
			Cause:    err,
		}
	}

	slog.Debug("answer request succeeded",
		"provider", p.Name(),
		"model", answer.Model,
		"tokens", answer.Usage.TotalTokens(),
		"cost_usd", answer.CostUSD,
	)

	return answer, nil
}

// priceFor returns the pricing for a model, matching by table-key prefix
// so dated model identifiers resolve to their family rate.
func priceFor(model string) providers.ModelPricing {
	for prefix, price := range pricing {
		if strings.HasPrefix(model, prefix) {
			return price
		}
	}
	return defaultPricing
}

// validateRequest validates the answer request.
func validateRequest(req *providers.AnswerRequest) error {
	if req == nil {
		return &providers.ValidationError{
			Field:   "request",
			Message: "request cannot be nil",
		}
	}

	if req.Model == "" {
		return &providers.ValidationError{
			Field:   "model",
			Message: "model is required",
		}
	}

	if strings.TrimSpace(req.Question) == "" {
		return &providers.ValidationError{
			Field:   "question",
			Message: "question cannot be empty",
		}
	}

	return nil
}
