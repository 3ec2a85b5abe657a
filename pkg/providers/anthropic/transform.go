package anthropic

import (
	"fmt"

	"brainbot-hq/brainbot/pkg/providers"
)

// messagesRequest is the Anthropic Messages API request format.
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the Anthropic Messages API response format.
type messagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      usage          `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// transformRequest converts a provider-agnostic request to Anthropic's
// format. The knowledge context rides in the system prompt; the question
// is the sole user message.
func transformRequest(req *providers.AnswerRequest) *messagesRequest {
	maxTokens := req.MaxAnswerTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	return &messagesRequest{
		Model:     req.Model,
		MaxTokens: maxTokens,
		System:    req.Context,
		Messages: []message{
			{Role: "user", Content: req.Question},
		},
	}
}

// transformResponse converts an Anthropic response to the
// provider-agnostic format, computing the request cost from reported
// usage.
func transformResponse(resp *messagesResponse) (*providers.Answer, error) {
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("response contains no content blocks")
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, fmt.Errorf("response contains no text content")
	}

	tokenUsage := providers.TokenUsage{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}

	return &providers.Answer{
		Text:    text,
		Model:   resp.Model,
		Usage:   tokenUsage,
		CostUSD: priceFor(resp.Model).Cost(tokenUsage),
	}, nil
}
