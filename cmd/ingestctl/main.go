// Command ingestctl triggers a one-shot ingest run against a running
// pulsefeed deployment's configuration, without starting the HTTP API or
// the cron scheduler.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/codeready-toolchain/pulsefeed/pkg/categories"
	"github.com/codeready-toolchain/pulsefeed/pkg/classifier"
	"github.com/codeready-toolchain/pulsefeed/pkg/config"
	"github.com/codeready-toolchain/pulsefeed/pkg/eventstore"
	"github.com/codeready-toolchain/pulsefeed/pkg/ingest"
	"github.com/codeready-toolchain/pulsefeed/pkg/proposals"
	"github.com/codeready-toolchain/pulsefeed/pkg/scheduler"
	"github.com/codeready-toolchain/pulsefeed/pkg/series"
	"github.com/codeready-toolchain/pulsefeed/pkg/sources"
	"github.com/codeready-toolchain/pulsefeed/pkg/store"
)

var configDir string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ingestctl",
	Short: "Trigger an ingest run against the configured sources",
}

var runCmd = &cobra.Command{
	Use:   "run [sourceId]",
	Short: "Run ingest once, for all sources or a single one by id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sched, err := buildScheduler(ctx)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			return sched.RunSource(ctx, args[0])
		}
		return sched.RunNow(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"), "Path to configuration directory")
	rootCmd.AddCommand(runCmd)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// buildScheduler wires the same collaborators as the server process, minus
// the HTTP surface and the cron loop, so a single RunNow/RunSource call can
// reuse the C7 orchestrator directly.
func buildScheduler(ctx context.Context) (*scheduler.Scheduler, error) {
	envPath := filepath.Join(configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("could not load .env file, continuing with existing environment", "path", envPath, "error", err)
	}

	cfg, err := config.Initialize(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("initialize configuration: %w", err)
	}

	dbPassword := os.Getenv(cfg.Database.PasswordEnv)
	db, err := store.NewDB(ctx, cfg.Database, dbPassword)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	llmProvider, err := cfg.LLMProviderRegistry.Active()
	if err != nil {
		return nil, fmt.Errorf("no active LLM provider: %w", err)
	}
	embeddingProvider, err := cfg.EmbeddingProviderRegistry.Active()
	if err != nil {
		return nil, fmt.Errorf("no active embedding provider: %w", err)
	}

	classifierClient := classifier.New(*llmProvider, *embeddingProvider, cfg.Defaults.StopWordBlocklist)
	orchestrator := &ingest.Orchestrator{
		Events:            eventstore.New(db),
		Classifier:        classifierClient,
		Proposals:         proposals.New(db),
		Series:            series.New(db),
		Categories:        categories.New(db, classifierClient),
		StopWordBlocklist: cfg.Defaults.StopWordBlocklist,
		Logger:            slog.Default(),
	}

	fetcher := sources.NewFetcher(cfg.Ingest.FetchBackoffUnit, cfg.Ingest.FetchMaxAttempts, cfg.Ingest.FetchMaxPages)

	return scheduler.New(cfg.Ingest, cfg.Defaults.DisplayTimeZone, cfg.SourceRegistry, orchestrator, fetcher)
}
