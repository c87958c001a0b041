// Command analyst runs an on-demand deep dive on a single symbol: recent
// headlines plus a price snapshot go to the model, and the verdict is sent
// to Telegram.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"news-alert-bot/internal/feed"
	"news-alert-bot/internal/llm/gemini"
	"news-alert-bot/internal/logger"
	"news-alert-bot/internal/marketdata"
	"news-alert-bot/internal/scanner"
	"news-alert-bot/internal/store"
	"news-alert-bot/internal/telegram"
	"news-alert-bot/internal/trace"
	"news-alert-bot/internal/types"

	"github.com/joho/godotenv"
)

func main() {
	symbol := flag.String("symbol", "", "ticker to analyze (required)")
	chatID := flag.String("chat", "", "send to a single chat id instead of all configured recipients")
	flag.Parse()

	if *symbol == "" {
		fmt.Fprintln(os.Stderr, "usage: analyst -symbol TCS [-chat 12345]")
		os.Exit(2)
	}

	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, strings.ToUpper(*symbol), *chatID)
	stop()

	_ = trace.Shutdown(context.Background())

	if err != nil {
		logger.ErrorWithErr(context.Background(), "Analysis failed", err, "symbol", *symbol)
		os.Exit(1)
	}
}

func run(ctx context.Context, symbol, chatID string) error {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		return err
	}
	creds, err := store.LoadCredentials()
	if err != nil {
		return err
	}

	market := symbol
	if !strings.Contains(symbol, ".") {
		market = symbol + cfg.MarketSuffix
	}

	op := logger.StartOperation(ctx, "instant-analysis", "symbol", symbol)
	ctx = op.GetContext()

	notifier := telegram.New(creds.BotToken, creds.ChatIDs)
	send := func(text string) error {
		if chatID != "" {
			return notifier.SendTo(ctx, chatID, text)
		}
		return notifier.Broadcast(ctx, text)
	}

	items, err := feed.NewClient(cfg).Fetch(ctx, symbol, cfg.Scan.MaxItems)
	if err != nil {
		op.EndWithError(err)
		return fmt.Errorf("fetch news: %w", err)
	}

	window := time.Duration(cfg.Analyst.FreshnessHours) * time.Hour
	now := time.Now()
	var fresh []types.NewsItem
	for _, item := range items {
		if scanner.Fresh(item, now, window) {
			fresh = append(fresh, item)
		}
	}

	if len(fresh) == 0 {
		logger.Info(ctx, "No recent news for symbol", "symbol", symbol, "window_hours", cfg.Analyst.FreshnessHours)
		op.End("items", 0)
		return send(fmt.Sprintf("📭 *%s*\nNo news in the last %dh.", symbol, cfg.Analyst.FreshnessHours))
	}

	headlines := make([]string, len(fresh))
	for i, item := range fresh {
		headlines[i] = item.Title
	}

	// Price context is best effort; the verdict still goes out without it.
	var snap *types.Snapshot
	candles, err := marketdata.NewClient().Candles(ctx, market, cfg.Analyst.LookbackDays, cfg.Analyst.Interval)
	if err != nil {
		logger.Warn(ctx, "Market data unavailable, analyzing headlines only", "symbol", market, "error", err)
	} else {
		snap = marketdata.Snapshot(candles)
	}

	verdict, err := gemini.New(cfg, creds.GeminiAPIKey).AnalyzeDetailed(ctx, symbol, headlines, snap)
	if err != nil {
		op.EndWithError(err)
		return fmt.Errorf("analyze: %w", err)
	}

	msg := formatReport(symbol, verdict, fresh[0], snap)
	if err := send(msg); err != nil {
		op.EndWithError(err)
		return fmt.Errorf("deliver report: %w", err)
	}

	logger.Alert(ctx, symbol, verdict.Signal, verdict.Confidence, verdict.Reason, "headlines", len(headlines))
	op.End("items", len(fresh), "signal", verdict.Signal)
	return nil
}

func formatReport(symbol string, v types.Verdict, top types.NewsItem, snap *types.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 *%s*\n%s\n", symbol, v)
	if snap != nil {
		fmt.Fprintf(&b, "💹 Close %.2f | SMA20 %.2f | SMA50 %.2f | RSI14 %.1f\n",
			snap.Close, snap.SMA20, snap.SMA50, snap.RSI14)
	}
	fmt.Fprintf(&b, "📰 %s\n[Source](%s)", top.Title, top.Link)
	return b.String()
}
