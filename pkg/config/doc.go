// Package config provides configuration management for Brainbot.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention BRAINBOT_SECTION_FIELD.
// For example:
//
//   - BRAINBOT_BOT_AUTHORIZED_USER overrides bot.authorized_user
//   - BRAINBOT_PROVIDERS_ANTHROPIC_API_KEY overrides providers.anthropic.api_key
//   - BRAINBOT_ADMISSION_DAILY_BUDGET_USD overrides admission.daily_budget_usd
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides
// earlier):
//
//  1. Built-in defaults
//  2. YAML file values
//  3. Environment variables
package config
