package openai

import (
	"fmt"

	"brainbot-hq/brainbot/pkg/providers"
)

// chatRequest is the OpenAI Chat Completions API request format.
type chatRequest struct {
	Model               string    `json:"model"`
	Messages            []message `json:"messages"`
	MaxCompletionTokens int       `json:"max_completion_tokens,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the OpenAI Chat Completions API response format.
type chatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

type choice struct {
	Message      message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// transformRequest converts a provider-agnostic request to OpenAI's
// format. The knowledge context rides in a system message.
func transformRequest(req *providers.AnswerRequest) *chatRequest {
	var messages []message
	if req.Context != "" {
		messages = append(messages, message{Role: "system", Content: req.Context})
	}
	messages = append(messages, message{Role: "user", Content: req.Question})

	return &chatRequest{
		Model:               req.Model,
		Messages:            messages,
		MaxCompletionTokens: req.MaxAnswerTokens,
	}
}

// transformResponse converts an OpenAI response to the provider-agnostic
// format, computing the request cost from reported usage.
func transformResponse(resp *chatResponse) (*providers.Answer, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("response contains no choices")
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return nil, fmt.Errorf("response contains no message content")
	}

	tokenUsage := providers.TokenUsage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}

	return &providers.Answer{
		Text:    text,
		Model:   resp.Model,
		Usage:   tokenUsage,
		CostUSD: priceFor(resp.Model).Cost(tokenUsage),
	}, nil
}
