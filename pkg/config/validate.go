package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "admission.cooldown").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is
// valid. All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateBot(&cfg.Bot)...)
	errs = append(errs, validateAdmission(&cfg.Admission)...)
	errs = append(errs, validateExecutor(&cfg.Executor)...)
	errs = append(errs, validateProviders(cfg.Providers)...)
	errs = append(errs, validateTiers(cfg.Tiers, cfg.Providers)...)
	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateMaintenance(&cfg.Maintenance)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateBot validates chat front-end configuration.
func validateBot(cfg *BotConfig) []FieldError {
	var errs []FieldError

	if cfg.AuthorizedUser == "" {
		errs = append(errs, FieldError{
			Field:   "bot.authorized_user",
			Message: "authorized user is required",
		})
	}
	if cfg.MaxResponseChars < 100 {
		errs = append(errs, FieldError{
			Field:   "bot.max_response_chars",
			Message: "must be at least 100",
		})
	}
	if cfg.TypingInterval <= 0 {
		errs = append(errs, FieldError{
			Field:   "bot.typing_interval",
			Message: "must be positive",
		})
	}

	return errs
}

// validateAdmission validates admission controller configuration.
func validateAdmission(cfg *AdmissionConfig) []FieldError {
	var errs []FieldError

	if cfg.Cooldown <= 0 {
		errs = append(errs, FieldError{
			Field:   "admission.cooldown",
			Message: "must be positive",
		})
	}
	if cfg.DailyBudgetUSD <= 0 {
		errs = append(errs, FieldError{
			Field:   "admission.daily_budget_usd",
			Message: "must be positive",
		})
	}
	if cfg.CacheTTL <= 0 {
		errs = append(errs, FieldError{
			Field:   "admission.cache_ttl",
			Message: "must be positive",
		})
	}
	if cfg.DedupWindow <= 0 {
		errs = append(errs, FieldError{
			Field:   "admission.dedup_window",
			Message: "must be positive",
		})
	}

	return errs
}

// validateExecutor validates executor configuration.
func validateExecutor(cfg *ExecutorConfig) []FieldError {
	var errs []FieldError

	if cfg.RequestTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "executor.request_timeout",
			Message: "must be positive",
		})
	}
	if cfg.MaxAttempts < 1 {
		errs = append(errs, FieldError{
			Field:   "executor.max_attempts",
			Message: "must be at least 1",
		})
	}

	return errs
}

// validateProviders validates provider configurations.
func validateProviders(providers map[string]ProviderConfig) []FieldError {
	var errs []FieldError

	if len(providers) == 0 {
		errs = append(errs, FieldError{
			Field:   "providers",
			Message: "at least one provider is required",
		})
		return errs
	}

	for name, provider := range providers {
		field := fmt.Sprintf("providers.%s", name)

		switch provider.Type {
		case "anthropic", "openai":
		default:
			errs = append(errs, FieldError{
				Field:   field + ".type",
				Message: fmt.Sprintf("unknown provider type %q (expected anthropic or openai)", provider.Type),
			})
		}
		if provider.APIKey == "" {
			errs = append(errs, FieldError{
				Field:   field + ".api_key",
				Message: "API key is required",
			})
		}
		if provider.Timeout <= 0 {
			errs = append(errs, FieldError{
				Field:   field + ".timeout",
				Message: "must be positive",
			})
		}
	}

	return errs
}

// validateTiers validates query tier configurations and their provider
// references.
func validateTiers(tiers map[string]TierConfig, providers map[string]ProviderConfig) []FieldError {
	var errs []FieldError

	if len(tiers) == 0 {
		errs = append(errs, FieldError{
			Field:   "tiers",
			Message: "at least one query tier is required",
		})
		return errs
	}

	for name, tier := range tiers {
		field := fmt.Sprintf("tiers.%s", name)

		if tier.Provider == "" {
			errs = append(errs, FieldError{
				Field:   field + ".provider",
				Message: "provider is required",
			})
		} else if _, ok := providers[tier.Provider]; !ok {
			errs = append(errs, FieldError{
				Field:   field + ".provider",
				Message: fmt.Sprintf("references unknown provider %q", tier.Provider),
			})
		}
		if tier.Model == "" {
			errs = append(errs, FieldError{
				Field:   field + ".model",
				Message: "model is required",
			})
		}
		if tier.MaxBudgetUSD < 0 {
			errs = append(errs, FieldError{
				Field:   field + ".max_budget_usd",
				Message: "must not be negative",
			})
		}
	}

	return errs
}

// validateStorage validates persistence configuration.
func validateStorage(cfg *StorageConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("unknown backend %q (expected memory or sqlite)", cfg.Backend),
		})
	}
	if cfg.Backend == "sqlite" && cfg.SQLitePath == "" {
		errs = append(errs, FieldError{
			Field:   "storage.sqlite_path",
			Message: "path is required for the sqlite backend",
		})
	}

	return errs
}

// validateMaintenance validates the maintenance schedule.
func validateMaintenance(cfg *MaintenanceConfig) []FieldError {
	var errs []FieldError

	if cfg.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "maintenance.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.listen_address",
			Message: "listen address is required when metrics are enabled",
		})
	}

	return errs
}
