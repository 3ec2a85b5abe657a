package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClient(ClientConfig{
		Name:    "test",
		BaseURL: url,
		APIKey:  "key",
		Timeout: 5 * time.Second,
	})
}

func TestClient_DoJSON_RoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		var in map[string]string
		json.NewDecoder(r.Body).Decode(&in)
		json.NewEncoder(w).Encode(map[string]string{"echo": in["ping"]})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	defer c.Close()

	var out map[string]string
	err := c.DoJSON(context.Background(), "POST", server.URL,
		map[string]string{"ping": "hello"}, &out, nil)
	if err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if out["echo"] != "hello" {
		t.Errorf("echo = %q", out["echo"])
	}
}

func TestClient_Do_SingleAttempt(t *testing.T) {
	// The base client never retries; a failing upstream is hit exactly once.
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	defer c.Close()

	_, err := c.Do(context.Background(), "POST", server.URL, []byte("{}"), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}

	var providerErr *ProviderError
	if !errors.As(err, &providerErr) || providerErr.StatusCode != 500 {
		t.Errorf("got %v, want ProviderError with status 500", err)
	}
}

func TestClient_Do_StatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"401 auth", http.StatusUnauthorized, func(err error) bool {
			var e *AuthError
			return errors.As(err, &e)
		}},
		{"403 auth", http.StatusForbidden, func(err error) bool {
			var e *AuthError
			return errors.As(err, &e)
		}},
		{"429 rate limit", http.StatusTooManyRequests, func(err error) bool {
			var e *RateLimitError
			return errors.As(err, &e)
		}},
		{"400 provider error", http.StatusBadRequest, func(err error) bool {
			var e *ProviderError
			return errors.As(err, &e) && e.StatusCode == 400
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			c := newTestClient(server.URL)
			defer c.Close()

			_, err := c.Do(context.Background(), "GET", server.URL, nil, nil)
			if err == nil || !tt.check(err) {
				t.Errorf("got %v, classification failed", err)
			}
		})
	}
}

func TestClient_Do_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Do(ctx, "GET", server.URL, nil, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v, want context.DeadlineExceeded", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter("15"); got != 15*time.Second {
		t.Errorf("seconds form = %v", got)
	}
	if got := parseRetryAfter(""); got != 0 {
		t.Errorf("empty = %v", got)
	}
	future := time.Now().Add(30 * time.Second).UTC().Format(http.TimeFormat)
	if got := parseRetryAfter(future); got < 25*time.Second || got > 30*time.Second {
		t.Errorf("http-date form = %v", got)
	}
}
