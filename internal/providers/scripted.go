// Package providers holds test doubles for the answer-provider
// abstraction: a scripted provider returning canned answers and errors
// without any network I/O.
package providers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"brainbot-hq/brainbot/pkg/providers"
)

// Step is one scripted GenerateAnswer result.
type Step struct {
	Answer *providers.Answer
	Err    error
}

// Scripted is a Provider that replays a fixed script. Once the script is
// exhausted the last step repeats; with no script at all every call
// echoes the question. Thread-safe.
type Scripted struct {
	name  string
	delay time.Duration

	mu    sync.Mutex
	steps []Step
	calls int
}

// NewScripted creates a scripted provider named name.
func NewScripted(name string, steps ...Step) *Scripted {
	return &Scripted{name: name, steps: steps}
}

// WithDelay makes every call sleep for d (interruptible by ctx) before
// answering, for deadline and typing-indicator tests.
func (s *Scripted) WithDelay(d time.Duration) *Scripted {
	s.delay = d
	return s
}

func (s *Scripted) Name() string { return s.name }

func (s *Scripted) GenerateAnswer(ctx context.Context, req *providers.AnswerRequest) (*providers.Answer, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}

	s.mu.Lock()
	i := s.calls
	s.calls++
	steps := s.steps
	s.mu.Unlock()

	if len(steps) == 0 {
		return &providers.Answer{
			Text:    fmt.Sprintf("scripted answer to: %s", req.Question),
			Model:   req.Model,
			Usage:   providers.TokenUsage{InputTokens: 10, OutputTokens: 20},
			CostUSD: 0.001,
		}, nil
	}

	if i >= len(steps) {
		i = len(steps) - 1
	}
	return steps[i].Answer, steps[i].Err
}

// CallCount returns how many GenerateAnswer calls were made.
func (s *Scripted) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *Scripted) Close() error { return nil }
