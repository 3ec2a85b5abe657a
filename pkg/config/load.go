package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Booleans that default to true are pre-set so an absent key keeps the
	// default while an explicit `false` survives unmarshalling.
	cfg := Config{
		Vault: VaultConfig{WatchContext: DefaultWatchContext},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
		},
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention BRAINBOT_SECTION_FIELD (e.g., BRAINBOT_ADMISSION_COOLDOWN).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format BRAINBOT_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Bot overrides
	if val := os.Getenv("BRAINBOT_BOT_AUTHORIZED_USER"); val != "" {
		cfg.Bot.AuthorizedUser = val
	}
	if val := os.Getenv("BRAINBOT_BOT_MAX_RESPONSE_CHARS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Bot.MaxResponseChars = i
		}
	}

	// Admission overrides
	if val := os.Getenv("BRAINBOT_ADMISSION_COOLDOWN"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Admission.Cooldown = d
		}
	}
	if val := os.Getenv("BRAINBOT_ADMISSION_DAILY_BUDGET_USD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Admission.DailyBudgetUSD = f
		}
	}
	if val := os.Getenv("BRAINBOT_ADMISSION_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Admission.CacheTTL = d
		}
	}
	if val := os.Getenv("BRAINBOT_ADMISSION_DEDUP_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Admission.DedupWindow = d
		}
	}

	// Executor overrides
	if val := os.Getenv("BRAINBOT_EXECUTOR_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Executor.RequestTimeout = d
		}
	}
	if val := os.Getenv("BRAINBOT_EXECUTOR_MAX_ATTEMPTS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Executor.MaxAttempts = i
		}
	}

	// Provider overrides for the common adapters.
	applyProviderEnvOverrides(cfg, "anthropic")
	applyProviderEnvOverrides(cfg, "openai")

	// Vault overrides
	if val := os.Getenv("BRAINBOT_VAULT_CONTEXT_PATH"); val != "" {
		cfg.Vault.ContextPath = val
	}
	if val := os.Getenv("BRAINBOT_VAULT_INBOX_PREFIX"); val != "" {
		cfg.Vault.InboxPrefix = val
	}

	// Storage overrides
	if val := os.Getenv("BRAINBOT_STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("BRAINBOT_STORAGE_SQLITE_PATH"); val != "" {
		cfg.Storage.SQLitePath = val
	}
	if val := os.Getenv("BRAINBOT_STORAGE_CAPTURE_LOG_PATH"); val != "" {
		cfg.Storage.CaptureLogPath = val
	}

	// Maintenance overrides
	if val := os.Getenv("BRAINBOT_MAINTENANCE_PRUNE_SCHEDULE"); val != "" {
		cfg.Maintenance.PruneSchedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("BRAINBOT_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("BRAINBOT_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("BRAINBOT_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("BRAINBOT_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
}

// applyProviderEnvOverrides applies overrides for a single named provider.
// The API key override creates the provider entry if it does not exist so a
// fully env-driven deployment needs no secrets in the YAML file.
func applyProviderEnvOverrides(cfg *Config, name string) {
	prefix := "BRAINBOT_PROVIDERS_" + envName(name)

	provider, exists := cfg.Providers[name]

	if val := os.Getenv(prefix + "_API_KEY"); val != "" {
		provider.APIKey = val
		exists = true
	}
	if !exists {
		return
	}
	if val := os.Getenv(prefix + "_BASE_URL"); val != "" {
		provider.BaseURL = val
	}
	if val := os.Getenv(prefix + "_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			provider.Timeout = d
		}
	}
	if provider.Type == "" {
		provider.Type = name
	}
	if provider.Timeout == 0 {
		provider.Timeout = DefaultProviderTimeout
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	cfg.Providers[name] = provider
}

// envName converts a provider name to its environment variable segment.
func envName(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
			out = append(out, c-'a'+'A')
		case c == '-' || c == '.':
			out = append(out, '_')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
