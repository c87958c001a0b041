package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"news-alert-bot/internal/logger"
	"news-alert-bot/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()

	// Shutdown uses a fresh context; ctx may already be cancelled.
	_ = trace.Shutdown(context.Background())

	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	entries, s, err := buildScanner(ctx, cfg)
	if err != nil {
		return err
	}

	sum, err := s.Run(ctx, entries)
	if err != nil {
		logger.ErrorWithErr(ctx, "Scan finished with error", err)
	}
	logger.Info(ctx, "Scan finished",
		"symbols_scanned", sum.SymbolsScanned,
		"items_seen", sum.ItemsSeen,
		"alerts", sum.Alerts,
		"budget_expired", sum.BudgetExpired,
	)
	return err
}
