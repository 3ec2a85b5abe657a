package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"brainbot-hq/brainbot/pkg/config"
)

var validateFlags struct {
	env bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load a configuration file, apply defaults, and report every
validation error at once.

Examples:
  # Validate the default config
  brainbot validate

  # Validate a specific file
  brainbot validate --config /etc/brainbot/config.yaml

  # Validate with BRAINBOT_* environment overrides applied
  brainbot validate --env`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.env, "env", false, "apply BRAINBOT_* environment overrides before validating")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error
	if validateFlags.env {
		cfg, err = config.LoadConfigWithEnvOverrides(cfgFile)
	} else {
		cfg, err = config.LoadConfig(cfgFile)
	}
	if err != nil {
		return err
	}

	fmt.Printf("✓ Configuration valid: %s\n", cfgFile)
	fmt.Printf("  Providers: %d, Tiers: %d\n", len(cfg.Providers), len(cfg.Tiers))
	fmt.Printf("  Cooldown: %s, Daily budget: $%.2f, Cache TTL: %s\n",
		cfg.Admission.Cooldown, cfg.Admission.DailyBudgetUSD, cfg.Admission.CacheTTL)
	return nil
}
