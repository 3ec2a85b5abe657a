package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"brainbot-hq/brainbot/pkg/admission"
	"brainbot-hq/brainbot/pkg/admission/dedup"
	"brainbot-hq/brainbot/pkg/admission/storage"
	"brainbot-hq/brainbot/pkg/bot"
	"brainbot-hq/brainbot/pkg/capture"
	"brainbot-hq/brainbot/pkg/cli"
	"brainbot-hq/brainbot/pkg/config"
	"brainbot-hq/brainbot/pkg/executor"
	"brainbot-hq/brainbot/pkg/maintenance"
	"brainbot-hq/brainbot/pkg/providers"
	"brainbot-hq/brainbot/pkg/providers/anthropic"
	"brainbot-hq/brainbot/pkg/providers/openai"
	"brainbot-hq/brainbot/pkg/telemetry/logging"
	"brainbot-hq/brainbot/pkg/telemetry/metrics"
	"brainbot-hq/brainbot/pkg/vault"
)

var runFlags struct {
	logLevel string
	dryRun   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot",
	Long: `Start the bot with the specified configuration.

Messages are read line by line from standard input as the authorized
user; replies and reactions print to standard output. A real chat
platform binding implements the same transport interface out of tree.

Examples:
  # Start with default config
  brainbot run

  # Start with custom config
  brainbot run --config /etc/brainbot/config.yaml

  # Validate config without starting
  brainbot run --dry-run`,
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting")
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.Setup(&cfg.Telemetry.Logging)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Providers and tier routes.
	providerByName := make(map[string]providers.Provider, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		p, err := newProvider(name, pc)
		if err != nil {
			return fmt.Errorf("provider %q: %w", name, err)
		}
		defer p.Close()
		providerByName[name] = p
	}

	routes := make(map[string]executor.Route, len(cfg.Tiers))
	providerByModel := make(map[string]string, len(cfg.Tiers))
	for tier, tc := range cfg.Tiers {
		routes[tier] = executor.Route{
			Provider:        providerByName[tc.Provider],
			Model:           tc.Model,
			MaxAnswerTokens: tc.MaxAnswerTokens,
			MaxCostUSD:      tc.MaxBudgetUSD,
		}
		providerByModel[tc.Model] = tc.Provider
	}

	// Knowledge context, hot-reloaded on file change.
	loader, err := vault.NewContextLoader(cfg.Vault.ContextPath, logger)
	if err != nil {
		return fmt.Errorf("context loader: %w", err)
	}
	if cfg.Vault.WatchContext {
		go func() {
			if err := loader.Watch(ctx); err != nil {
				logger.Error("context watch failed", "error", err)
			}
		}()
	}

	// Metrics.
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	router := executor.NewRouter(routes, loader, executor.Config{
		RequestTimeout: cfg.Executor.RequestTimeout,
		MaxAttempts:    cfg.Executor.MaxAttempts,
		Metrics:        collector,
	})
	if cfg.Telemetry.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
		metricsSrv := &http.Server{
			Addr:              cfg.Telemetry.Metrics.ListenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", "address", metricsSrv.Addr, "path", cfg.Telemetry.Metrics.Path)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	// Capture pipeline.
	store, err := vault.NewFileStore(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("vault store: %w", err)
	}
	captureLog, err := capture.NewLog(cfg.Storage.CaptureLogPath)
	if err != nil {
		return fmt.Errorf("capture log: %w", err)
	}
	defer captureLog.Close()

	guard := dedup.NewGuard(cfg.Admission.DedupWindow)
	captureSvc := capture.NewService(guard, store, captureLog, cfg.Vault.InboxPrefix, collector, logger)

	// Limit-state persistence.
	var backend storage.Backend
	switch cfg.Storage.Backend {
	case "sqlite":
		backend, err = storage.NewSQLiteBackend(cfg.Storage.SQLitePath)
		if err != nil {
			return fmt.Errorf("limit-state storage: %w", err)
		}
	case "memory":
		backend = storage.NewMemoryBackend()
	default:
		return fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
	defer backend.Close()

	controller := admission.NewController(admission.Config{
		Cooldown:       cfg.Admission.Cooldown,
		DailyBudgetUSD: cfg.Admission.DailyBudgetUSD,
		CacheTTL:       cfg.Admission.CacheTTL,
	}, router, captureSvc, backend, &admissionRecorder{
		collector:       collector,
		providerByModel: providerByModel,
	}, logger)
	defer controller.Close()

	if err := controller.Restore(ctx); err != nil {
		logger.Warn("limit state restore failed", "error", err)
	}

	// Nightly maintenance.
	scheduler := maintenance.NewScheduler(cfg.Maintenance.PruneSchedule, controller, guard, logger)
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("run", fmt.Errorf("maintenance scheduler: %w", err))
	}
	defer scheduler.Stop()

	// Bot over the console transport.
	transport := bot.NewConsoleTransport(os.Stdout)
	b := bot.New(bot.Config{
		AuthorizedUser:   cfg.Bot.AuthorizedUser,
		MaxResponseChars: cfg.Bot.MaxResponseChars,
		TypingInterval:   cfg.Bot.TypingInterval,
	}, controller, captureLog, transport, logger)

	fmt.Printf("✓ Brainbot started (user %s, %d tiers)\n", cfg.Bot.AuthorizedUser, len(routes))
	fmt.Println("Type a message to capture it, /help for commands, Ctrl+C to stop")

	sigCh := cli.ShutdownSignals()
	lines := readLines(ctx, os.Stdin)
	msgSeq := 0
	for {
		select {
		case sig := <-sigCh:
			fmt.Printf("\nReceived signal %s, shutting down\n", sig)
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			msgSeq++
			msg := bot.Message{
				ID:        fmt.Sprintf("c%d", msgSeq),
				UserID:    cfg.Bot.AuthorizedUser,
				Text:      line,
				Timestamp: time.Now().Unix(),
			}
			if err := b.HandleMessage(ctx, msg); err != nil {
				logger.Error("message handling failed", "error", err)
			}
		}
	}
}

// newProvider builds a provider adapter from its config.
func newProvider(name string, pc config.ProviderConfig) (providers.Provider, error) {
	clientCfg := providers.ClientConfig{
		Name:    name,
		BaseURL: pc.BaseURL,
		APIKey:  pc.APIKey,
		Timeout: pc.Timeout,
	}
	switch pc.Type {
	case "anthropic":
		return anthropic.NewProvider(clientCfg)
	case "openai":
		return openai.NewProvider(clientCfg)
	default:
		return nil, fmt.Errorf("unknown provider type %q", pc.Type)
	}
}

// readLines feeds stdin lines into a channel, closing it on EOF.
func readLines(ctx context.Context, r *os.File) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case ch <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// admissionRecorder adapts the telemetry collector to the admission
// controller's metrics surface, filling in the provider label the
// controller does not know.
type admissionRecorder struct {
	collector       *metrics.Collector
	providerByModel map[string]string
}

// providerFor resolves the provider label for a model as reported by the
// provider. Answers may carry a dated identifier (claude-sonnet-4-20250514)
// where the config names an alias (claude-sonnet-4), so an exact miss
// falls back to the longest configured-model prefix.
func (r *admissionRecorder) providerFor(model string) string {
	if provider, ok := r.providerByModel[model]; ok {
		return provider
	}
	var best string
	bestLen := -1
	for configured, provider := range r.providerByModel {
		if strings.HasPrefix(model, configured) && len(configured) > bestLen {
			best, bestLen = provider, len(configured)
		}
	}
	return best
}

func (r *admissionRecorder) RecordQuery(tier, outcome string, duration time.Duration) {
	r.collector.RecordQuery(tier, outcome, duration)
}

func (r *admissionRecorder) RecordCacheEviction(count int) {
	r.collector.RecordCacheEviction(count)
}

func (r *admissionRecorder) UpdateCacheSize(size int) {
	r.collector.UpdateCacheSize(size)
}

func (r *admissionRecorder) RecordSpend(model string, costUSD float64) {
	r.collector.RecordSpend(r.providerFor(model), model, costUSD)
}

func (r *admissionRecorder) UpdateBudgetRemaining(userID string, remainingUSD float64) {
	r.collector.UpdateBudgetRemaining(userID, remainingUSD)
}
