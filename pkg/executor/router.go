package executor

import (
	"context"
	"log/slog"

	"brainbot-hq/brainbot/pkg/providers"
	"brainbot-hq/brainbot/pkg/telemetry/logging"
)

// ContextSource supplies the knowledge context blob attached to every
// query. The vault's context loader implements it.
type ContextSource interface {
	Context() string
}

// Route binds a tier to a provider, model, and answer length.
type Route struct {
	// Provider answers queries for this tier.
	Provider providers.Provider

	// Model is the model identifier sent to the provider.
	Model string

	// MaxAnswerTokens bounds the generated answer length.
	MaxAnswerTokens int

	// MaxCostUSD is the expected per-query cost ceiling for the tier.
	// Zero disables the check. Exceeding it does not fail the query, the
	// answer is already paid for; it flags a mispriced tier.
	MaxCostUSD float64
}

// Router dispatches queries by tier. Each tier runs under the shared
// execution policy; the "ask" tier typically routes to a thorough model
// and "quick" to a fast one.
type Router struct {
	runners map[string]*tierRunner
	source  ContextSource
}

type tierRunner struct {
	runner *Runner
	route  Route
}

// NewRouter creates a router over the given tier routes. The context
// source may be nil, in which case queries carry no knowledge context.
func NewRouter(routes map[string]Route, source ContextSource, config Config) *Router {
	runners := make(map[string]*tierRunner, len(routes))
	for tier, route := range routes {
		runners[tier] = &tierRunner{
			runner: NewRunner(route.Provider, config),
			route:  route,
		}
	}
	return &Router{
		runners: runners,
		source:  source,
	}
}

// Execute runs a question through the tier's provider and returns the
// answer. The current knowledge context is attached to the request, and
// the tier, provider, and model are stamped into ctx so downstream log
// lines carry them.
func (r *Router) Execute(ctx context.Context, tier, question string) (*providers.Answer, error) {
	tr, exists := r.runners[tier]
	if !exists {
		return nil, &UnknownTierError{Tier: tier}
	}

	var knowledgeContext string
	if r.source != nil {
		knowledgeContext = r.source.Context()
	}

	if logging.GetTier(ctx) == "" {
		ctx = logging.WithTier(ctx, tier)
	}
	ctx = logging.WithProvider(ctx, tr.route.Provider.Name())
	ctx = logging.WithModel(ctx, tr.route.Model)

	slog.Debug("executing query", logging.ContextFields(ctx)...)

	answer, err := tr.runner.Run(ctx, &providers.AnswerRequest{
		Question:        question,
		Context:         knowledgeContext,
		Model:           tr.route.Model,
		MaxAnswerTokens: tr.route.MaxAnswerTokens,
	})
	if err != nil {
		return nil, err
	}

	if tr.route.MaxCostUSD > 0 && answer.CostUSD > tr.route.MaxCostUSD {
		slog.Warn("query cost exceeded tier ceiling", append(logging.ContextFields(ctx),
			"cost_usd", answer.CostUSD,
			"ceiling_usd", tr.route.MaxCostUSD,
		)...)
	}
	return answer, nil
}

// Tiers returns the configured tier names.
func (r *Router) Tiers() []string {
	tiers := make([]string, 0, len(r.runners))
	for tier := range r.runners {
		tiers = append(tiers, tier)
	}
	return tiers
}
