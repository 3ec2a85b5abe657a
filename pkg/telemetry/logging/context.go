package logging

import "context"

// Context keys for common log fields.
type contextKey string

const (
	// QueryIDKey is the context key for query IDs.
	QueryIDKey contextKey = "query_id"

	// UserKey is the context key for user identifiers.
	UserKey contextKey = "user"

	// TierKey is the context key for query tier names.
	TierKey contextKey = "tier"

	// ProviderKey is the context key for provider names.
	ProviderKey contextKey = "provider"

	// ModelKey is the context key for model names.
	ModelKey contextKey = "model"
)

// WithQueryID adds a query ID to the context.
func WithQueryID(ctx context.Context, queryID string) context.Context {
	return context.WithValue(ctx, QueryIDKey, queryID)
}

// GetQueryID retrieves the query ID from the context.
func GetQueryID(ctx context.Context) string {
	if queryID, ok := ctx.Value(QueryIDKey).(string); ok {
		return queryID
	}
	return ""
}

// WithUser adds a user identifier to the context.
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// GetUser retrieves the user identifier from the context.
func GetUser(ctx context.Context) string {
	if user, ok := ctx.Value(UserKey).(string); ok {
		return user
	}
	return ""
}

// WithTier adds a tier name to the context.
func WithTier(ctx context.Context, tier string) context.Context {
	return context.WithValue(ctx, TierKey, tier)
}

// GetTier retrieves the tier name from the context.
func GetTier(ctx context.Context) string {
	if tier, ok := ctx.Value(TierKey).(string); ok {
		return tier
	}
	return ""
}

// WithProvider adds a provider name to the context.
func WithProvider(ctx context.Context, provider string) context.Context {
	return context.WithValue(ctx, ProviderKey, provider)
}

// GetProvider retrieves the provider name from the context.
func GetProvider(ctx context.Context) string {
	if provider, ok := ctx.Value(ProviderKey).(string); ok {
		return provider
	}
	return ""
}

// WithModel adds a model name to the context.
func WithModel(ctx context.Context, model string) context.Context {
	return context.WithValue(ctx, ModelKey, model)
}

// GetModel retrieves the model name from the context.
func GetModel(ctx context.Context) string {
	if model, ok := ctx.Value(ModelKey).(string); ok {
		return model
	}
	return ""
}

// ContextFields extracts all known log fields from the context as
// alternating key/value pairs suitable for slog.
func ContextFields(ctx context.Context) []any {
	var fields []any

	if v := GetQueryID(ctx); v != "" {
		fields = append(fields, "query_id", v)
	}
	if v := GetUser(ctx); v != "" {
		fields = append(fields, "user", v)
	}
	if v := GetTier(ctx); v != "" {
		fields = append(fields, "tier", v)
	}
	if v := GetProvider(ctx); v != "" {
		fields = append(fields, "provider", v)
	}
	if v := GetModel(ctx); v != "" {
		fields = append(fields, "model", v)
	}

	return fields
}
