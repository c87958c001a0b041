package main

import (
	"context"
	"fmt"
	"os"

	"news-alert-bot/internal/feed"
	"news-alert-bot/internal/interfaces"
	"news-alert-bot/internal/llm/gemini"
	"news-alert-bot/internal/llm/noop"
	"news-alert-bot/internal/logger"
	"news-alert-bot/internal/memory"
	"news-alert-bot/internal/scanner"
	"news-alert-bot/internal/store"
	"news-alert-bot/internal/telegram"
	"news-alert-bot/internal/trace"
	"news-alert-bot/internal/watchlist"

	"github.com/joho/godotenv"
)

// initializeSystem initializes the environment, logger, and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeAnalyst returns the configured news analyst
func initializeAnalyst(ctx context.Context, cfg *store.Config, apiKey string) interfaces.Analyst {
	if os.Getenv("BOT_DRY_RUN") == "true" {
		logger.Warn(ctx, "Running in DRY_RUN mode - analyst always returns HOLD")
		return noop.New()
	}
	return gemini.New(cfg, apiKey)
}

// buildScanner wires credentials, watchlist, feed, analyst, notifier, and
// memory into a ready-to-run scanner.
func buildScanner(ctx context.Context, cfg *store.Config) ([]watchlist.Entry, *scanner.Scanner, error) {
	creds, err := store.LoadCredentials()
	if err != nil {
		logger.ErrorWithErr(ctx, "Missing credentials", err)
		return nil, nil, err
	}

	entries, err := watchlist.Load(cfg.WatchlistPath, cfg.MarketSuffix)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load watchlist", err, "path", cfg.WatchlistPath)
		return nil, nil, err
	}
	logger.Info(ctx, "Watchlist loaded", "path", cfg.WatchlistPath, "symbols", len(entries))

	s := scanner.New(
		scanner.ConfigFrom(cfg),
		feed.NewClient(cfg),
		initializeAnalyst(ctx, cfg, creds.GeminiAPIKey),
		telegram.New(creds.BotToken, creds.ChatIDs),
		memory.NewStore(cfg.MemoryPath, cfg.Scan.MemoryTrim),
	)
	return entries, s, nil
}
