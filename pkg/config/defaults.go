package config

import "time"

// Default values for configuration fields.
const (
	// Bot defaults
	DefaultMaxResponseChars = 3900
	DefaultTypingInterval   = 4 * time.Second

	// Admission defaults
	DefaultCooldown       = 30 * time.Second
	DefaultDailyBudgetUSD = 1.00
	DefaultCacheTTL       = 300 * time.Second
	DefaultDedupWindow    = 300 * time.Second

	// Executor defaults
	DefaultRequestTimeout = 25 * time.Second
	DefaultMaxAttempts    = 3

	// Provider defaults
	DefaultProviderTimeout = 60 * time.Second

	// Tier defaults
	DefaultMaxAnswerTokens = 1024

	// Vault defaults
	DefaultVaultPath    = "vault"
	DefaultWatchContext = true
	DefaultInboxPrefix  = "inbox/"

	// Storage defaults
	DefaultStorageBackend = "memory"
	DefaultSQLitePath     = "data/limits.db"
	DefaultCaptureLogPath = "data/captures.db"

	// Maintenance defaults
	DefaultPruneSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultMetricsEnabled       = true
	DefaultMetricsListenAddress = "127.0.0.1:9090"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "brainbot"
)

// ApplyDefaults fills in default values for any unset configuration fields.
// It modifies the configuration in place. Fields that are already set are
// not modified.
func ApplyDefaults(cfg *Config) {
	// Bot defaults
	if cfg.Bot.MaxResponseChars == 0 {
		cfg.Bot.MaxResponseChars = DefaultMaxResponseChars
	}
	if cfg.Bot.TypingInterval == 0 {
		cfg.Bot.TypingInterval = DefaultTypingInterval
	}

	// Admission defaults
	if cfg.Admission.Cooldown == 0 {
		cfg.Admission.Cooldown = DefaultCooldown
	}
	if cfg.Admission.DailyBudgetUSD == 0 {
		cfg.Admission.DailyBudgetUSD = DefaultDailyBudgetUSD
	}
	if cfg.Admission.CacheTTL == 0 {
		cfg.Admission.CacheTTL = DefaultCacheTTL
	}
	if cfg.Admission.DedupWindow == 0 {
		cfg.Admission.DedupWindow = DefaultDedupWindow
	}

	// Executor defaults
	if cfg.Executor.RequestTimeout == 0 {
		cfg.Executor.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Executor.MaxAttempts == 0 {
		cfg.Executor.MaxAttempts = DefaultMaxAttempts
	}

	// Provider defaults
	for name, provider := range cfg.Providers {
		if provider.Timeout == 0 {
			provider.Timeout = DefaultProviderTimeout
		}
		if provider.Type == "" {
			provider.Type = name
		}
		cfg.Providers[name] = provider
	}

	// Tier defaults
	for name, tier := range cfg.Tiers {
		if tier.MaxAnswerTokens == 0 {
			tier.MaxAnswerTokens = DefaultMaxAnswerTokens
		}
		cfg.Tiers[name] = tier
	}

	// Vault defaults
	if cfg.Vault.Path == "" {
		cfg.Vault.Path = DefaultVaultPath
	}
	if cfg.Vault.InboxPrefix == "" {
		cfg.Vault.InboxPrefix = DefaultInboxPrefix
	}

	// Storage defaults
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = DefaultSQLitePath
	}
	if cfg.Storage.CaptureLogPath == "" {
		cfg.Storage.CaptureLogPath = DefaultCaptureLogPath
	}

	// Maintenance defaults
	if cfg.Maintenance.PruneSchedule == "" {
		cfg.Maintenance.PruneSchedule = DefaultPruneSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// DefaultConfig returns a configuration populated entirely with defaults.
// The result is not valid until required fields (authorized user, at least
// one provider and tier) are set.
func DefaultConfig() *Config {
	cfg := &Config{
		Providers: make(map[string]ProviderConfig),
		Tiers:     make(map[string]TierConfig),
		Vault: VaultConfig{
			WatchContext: DefaultWatchContext,
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{
				Enabled: DefaultMetricsEnabled,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
