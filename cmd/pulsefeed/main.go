// Command pulsefeed runs the HTTP API, the ingest scheduler, and the
// retention cleanup loop as one process.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/codeready-toolchain/pulsefeed/pkg/api"
	"github.com/codeready-toolchain/pulsefeed/pkg/categories"
	"github.com/codeready-toolchain/pulsefeed/pkg/classifier"
	"github.com/codeready-toolchain/pulsefeed/pkg/cleanup"
	"github.com/codeready-toolchain/pulsefeed/pkg/config"
	"github.com/codeready-toolchain/pulsefeed/pkg/eventstore"
	"github.com/codeready-toolchain/pulsefeed/pkg/ingest"
	"github.com/codeready-toolchain/pulsefeed/pkg/proposals"
	"github.com/codeready-toolchain/pulsefeed/pkg/scheduler"
	"github.com/codeready-toolchain/pulsefeed/pkg/series"
	"github.com/codeready-toolchain/pulsefeed/pkg/sources"
	"github.com/codeready-toolchain/pulsefeed/pkg/store"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("could not load .env file, continuing with existing environment", "path", envPath, "error", err)
	} else {
		slog.Info("loaded environment file", "path", envPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting pulsefeed", "config_dir", *configDir)

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		slog.Error("failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	dbPassword := os.Getenv(cfg.Database.PasswordEnv)
	db, err := store.NewDB(ctx, cfg.Database, dbPassword)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to database and ran migrations")

	llmProvider, err := cfg.LLMProviderRegistry.Active()
	if err != nil {
		slog.Error("no active LLM provider configured", "error", err)
		os.Exit(1)
	}
	embeddingProvider, err := cfg.EmbeddingProviderRegistry.Active()
	if err != nil {
		slog.Error("no active embedding provider configured", "error", err)
		os.Exit(1)
	}

	classifierClient := classifier.New(*llmProvider, *embeddingProvider, cfg.Defaults.StopWordBlocklist)
	categoryStore := categories.New(db, classifierClient)
	seriesStore := series.New(db)
	eventStore := eventstore.New(db)
	proposalRecorder := proposals.New(db)

	orchestrator := &ingest.Orchestrator{
		Events:            eventStore,
		Classifier:        classifierClient,
		Proposals:         proposalRecorder,
		Series:            seriesStore,
		Categories:        categoryStore,
		StopWordBlocklist: cfg.Defaults.StopWordBlocklist,
		Logger:            slog.Default(),
	}

	fetcher := sources.NewFetcher(cfg.Ingest.FetchBackoffUnit, cfg.Ingest.FetchMaxAttempts, cfg.Ingest.FetchMaxPages)

	sched, err := scheduler.New(cfg.Ingest, cfg.Defaults.DisplayTimeZone, cfg.SourceRegistry, orchestrator, fetcher)
	if err != nil {
		slog.Error("failed to build scheduler", "error", err)
		os.Exit(1)
	}
	if err := sched.Start(ctx); err != nil {
		slog.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	cleanupService := cleanup.NewService(cfg.Retention, db)
	cleanupService.Start(ctx)

	apiKey := os.Getenv(cfg.API.APIKeyEnv)
	if apiKey == "" {
		slog.Warn("API key env var is unset; every request to the protected surface will be rejected", "env", cfg.API.APIKeyEnv)
	}

	server := api.NewServer(db, cfg.API, cfg.Defaults.DisplayTimeZone, apiKey, sched)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			slog.Error("HTTP server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during HTTP server shutdown", "error", err)
	}
	sched.Stop()
	cleanupService.Stop()

	slog.Info("pulsefeed stopped")
}
