package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// ============================================================================
// Error Message Tests
// ============================================================================

func TestProviderError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ProviderError
		want string
	}{
		{
			name: "with status code",
			err:  &ProviderError{Provider: "anthropic", StatusCode: 503, Message: "overloaded"},
			want: `provider "anthropic" error (status 503): overloaded`,
		},
		{
			name: "without status code",
			err:  &ProviderError{Provider: "anthropic", Message: "connection refused"},
			want: `provider "anthropic" error: connection refused`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &ProviderError{Provider: "openai", Message: "request failed", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find the cause")
	}
}

func TestRateLimitError_Error(t *testing.T) {
	err := &RateLimitError{Provider: "openai", RetryAfter: 7 * time.Second, Message: "slow down"}
	if !strings.Contains(err.Error(), "retry after 7s") {
		t.Errorf("Error() = %q, want retry-after mentioned", err.Error())
	}

	err = &RateLimitError{Provider: "openai", Message: "slow down"}
	if strings.Contains(err.Error(), "retry after") {
		t.Errorf("Error() = %q, retry-after mentioned without a value", err.Error())
	}
}

func TestParseError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("unexpected end of JSON input")
	err := &ParseError{Provider: "anthropic", RawResponse: "{", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find the cause")
	}
}

// ============================================================================
// Transience Classification Tests
// ============================================================================

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", &RateLimitError{Provider: "p"}, true},
		{"server error", &ProviderError{Provider: "p", StatusCode: 503}, true},
		{"network failure without status", &ProviderError{Provider: "p", Cause: errors.New("EOF")}, true},
		{"client error", &ProviderError{Provider: "p", StatusCode: 400}, false},
		{"auth failure", &AuthError{Provider: "p"}, false},
		{"parse failure", &ParseError{Provider: "p"}, false},
		{"invalid request", &ValidationError{Field: "model"}, false},
		{"bad configuration", &ConfigError{Provider: "p", Field: "api_key"}, false},
		{"plain error", errors.New("something"), false},
		{"wrapped rate limit", fmt.Errorf("attempt 2: %w", &RateLimitError{Provider: "p"}), true},
		{"wrapped auth failure", fmt.Errorf("attempt 1: %w", &AuthError{Provider: "p"}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorClass(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rate limit", &RateLimitError{Provider: "p"}, "rate_limit"},
		{"auth failure", &AuthError{Provider: "p"}, "auth"},
		{"parse failure", &ParseError{Provider: "p"}, "parse"},
		{"invalid request", &ValidationError{Field: "model"}, "validation"},
		{"bad configuration", &ConfigError{Provider: "p", Field: "api_key"}, "config"},
		{"server error", &ProviderError{Provider: "p", StatusCode: 503}, "server_error"},
		{"client error", &ProviderError{Provider: "p", StatusCode: 400}, "provider"},
		{"deadline", context.DeadlineExceeded, "timeout"},
		{"canceled", context.Canceled, "canceled"},
		{"plain error", errors.New("something"), "unknown"},
		{"wrapped rate limit", fmt.Errorf("attempt 2: %w", &RateLimitError{Provider: "p"}), "rate_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorClass(tt.err); got != tt.want {
				t.Errorf("ErrorClass(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
