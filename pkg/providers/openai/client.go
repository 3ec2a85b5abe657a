package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"brainbot-hq/brainbot/pkg/providers"
)

// Provider is the OpenAI provider adapter.
// It implements the providers.Provider interface for OpenAI's Chat
// Completions API.
type Provider struct {
	*providers.Client
}

// pricing is USD per million tokens, keyed by model identifier prefix.
var pricing = map[string]providers.ModelPricing{
	"gpt-5":       {InputPerMTok: 1.25, OutputPerMTok: 10.00},
	"gpt-5-mini":  {InputPerMTok: 0.25, OutputPerMTok: 2.00},
	"gpt-4o":      {InputPerMTok: 2.50, OutputPerMTok: 10.00},
	"gpt-4o-mini": {InputPerMTok: 0.15, OutputPerMTok: 0.60},
}

var defaultPricing = providers.ModelPricing{InputPerMTok: 2.50, OutputPerMTok: 10.00}

// NewProvider creates a new OpenAI provider instance.
func NewProvider(config providers.ClientConfig) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "openai",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com"
	}

	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for OpenAI",
		}
	}

	p := &Provider{
		Client: providers.NewClient(config),
	}

	slog.Info("OpenAI provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
	)

	return p, nil
}

// GenerateAnswer sends an answer request to OpenAI's Chat Completions API.
func (p *Provider) GenerateAnswer(ctx context.Context, req *providers.AnswerRequest) (*providers.Answer, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	openaiReq := transformRequest(req)

	url := fmt.Sprintf("%s/v1/chat/completions", p.Config().BaseURL)
	headers := map[string]string{
		"Authorization": "Bearer " + p.Config().APIKey,
		"Content-Type":  "application/json",
	}

	var openaiResp chatResponse
	if err := p.DoJSON(ctx, "POST", url, openaiReq, &openaiResp, headers); err != nil {
		return nil, err
	}

	answer, err := transformResponse(&openaiResp)
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

// priceFor returns the pricing for a model, preferring the longest
// matching table-key prefix so "gpt-4o-mini" does not resolve to the
// "gpt-4o" rate.
func priceFor(model string) providers.ModelPricing {
	best := ""
	for prefix := range pricing {
		if strings.HasPrefix(model, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return defaultPricing
	}
	return pricing[best]
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
