package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "brainbot",
	Short: "Brainbot - personal capture and query bot",
	Long: `Brainbot is a personal capture and query bot.

Plain messages are filed as markdown notes into a vault inbox; query
commands are answered by an LLM provider over a pre-aggregated knowledge
context. Queries pass through an admission controller:
  - Per-user cooldown between queries
  - Daily spending budget with lazy calendar rollover
  - TTL cache for repeated questions
  - Deadline-bounded provider calls with transient-error retry`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
