package config

import "time"

// Config is the root configuration structure for Brainbot.
// It contains all configuration sections for the chat bot, query admission,
// provider integrations, vault access, persistence, and telemetry.
type Config struct {
	// Bot contains chat front-end configuration including the authorized
	// user and response formatting limits.
	Bot BotConfig `yaml:"bot"`

	// Admission contains configuration for the query admission controller:
	// cooldown, daily budget, result cache TTL, and capture dedup window.
	Admission AdmissionConfig `yaml:"admission"`

	// Executor contains configuration for provider query execution:
	// request timeout and retry attempts.
	Executor ExecutorConfig `yaml:"executor"`

	// Providers contains configuration for all answer provider integrations.
	// Keys are provider names (e.g., "anthropic", "openai").
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Tiers maps query tiers to a provider and model. The "ask" tier is
	// used for thorough queries, the "quick" tier for fast ones.
	Tiers map[string]TierConfig `yaml:"tiers"`

	// Vault contains configuration for the knowledge context and note store.
	Vault VaultConfig `yaml:"vault"`

	// Storage contains configuration for limit-state persistence and the
	// capture log.
	Storage StorageConfig `yaml:"storage"`

	// Maintenance contains the schedule for background pruning.
	Maintenance MaintenanceConfig `yaml:"maintenance"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// BotConfig contains configuration for the chat front-end.
type BotConfig struct {
	// AuthorizedUser is the sole user ID allowed to interact with the bot.
	// Messages from any other user are ignored.
	// Required.
	AuthorizedUser string `yaml:"authorized_user"`

	// MaxResponseChars is the maximum response length before truncation.
	// Default: 3900
	MaxResponseChars int `yaml:"max_response_chars"`

	// TypingInterval is how often the typing indicator is refreshed while
	// a query executes.
	// Default: 4s
	TypingInterval time.Duration `yaml:"typing_interval"`
}

// AdmissionConfig contains configuration for the admission controller.
type AdmissionConfig struct {
	// Cooldown is the minimum spacing between admitted queries per user.
	// Default: 30s
	Cooldown time.Duration `yaml:"cooldown"`

	// DailyBudgetUSD caps recorded spend per user per calendar day.
	// Default: 1.00
	DailyBudgetUSD float64 `yaml:"daily_budget_usd"`

	// CacheTTL is the freshness window for cached answers.
	// Default: 300s
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// DedupWindow is the window within which an identical capture
	// (same content and message timestamp) is treated as a repeat.
	// Default: 300s
	DedupWindow time.Duration `yaml:"dedup_window"`
}

// ExecutorConfig contains configuration for query execution.
type ExecutorConfig struct {
	// RequestTimeout bounds the total latency of a provider call,
	// including retries.
	// Default: 25s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxAttempts is the total number of attempts for transient failures.
	// Default: 3
	MaxAttempts int `yaml:"max_attempts"`
}

// ProviderConfig contains configuration for a single answer provider.
type ProviderConfig struct {
	// Type is the provider adapter type ("anthropic", "openai").
	Type string `yaml:"type"`

	// BaseURL is the base URL for the provider's API endpoint.
	BaseURL string `yaml:"base_url"`

	// APIKey is the authentication key for the provider.
	// This should typically be loaded from an environment variable.
	APIKey string `yaml:"api_key"`

	// Timeout is the per-request HTTP timeout for this provider.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`
}

// TierConfig maps a query tier to a provider, model, and per-query ceiling.
type TierConfig struct {
	// Provider is the provider name this tier routes to.
	Provider string `yaml:"provider"`

	// Model is the model identifier sent to the provider.
	Model string `yaml:"model"`

	// MaxBudgetUSD is the per-query cost ceiling passed to the provider.
	MaxBudgetUSD float64 `yaml:"max_budget_usd"`

	// MaxAnswerTokens bounds the generated answer length.
	// Default: 1024
	MaxAnswerTokens int `yaml:"max_answer_tokens"`
}

// VaultConfig contains configuration for vault access.
type VaultConfig struct {
	// Path is the vault root directory backing the note store.
	// Default: "vault"
	Path string `yaml:"path"`

	// ContextPath is the local path of the pre-aggregated knowledge
	// context blob handed to the provider with each query.
	ContextPath string `yaml:"context_path"`

	// WatchContext reloads the context blob when the file changes.
	// Default: true
	WatchContext bool `yaml:"watch_context"`

	// InboxPrefix is the object key prefix for captured notes.
	// Default: "inbox/"
	InboxPrefix string `yaml:"inbox_prefix"`
}

// StorageConfig contains configuration for persistence.
type StorageConfig struct {
	// Backend selects the limit-state persistence backend.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLitePath is the limit-state database path when Backend is "sqlite".
	// Default: "data/limits.db"
	SQLitePath string `yaml:"sqlite_path"`

	// CaptureLogPath is the capture log database path.
	// Default: "data/captures.db"
	CaptureLogPath string `yaml:"capture_log_path"`
}

// MaintenanceConfig contains the background maintenance schedule.
type MaintenanceConfig struct {
	// PruneSchedule is a cron expression for pruning expired cache
	// entries, dedup records, and stale persisted snapshots.
	// Empty disables scheduled pruning.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address for the metrics HTTP endpoint.
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// Path is the metrics exposition path.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric namespace prefix.
	// Default: "brainbot"
	Namespace string `yaml:"namespace"`
}
