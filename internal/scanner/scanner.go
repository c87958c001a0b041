package scanner

import (
	"context"
	"fmt"
	"time"

	"news-alert-bot/internal/interfaces"
	"news-alert-bot/internal/logger"
	"news-alert-bot/internal/memory"
	"news-alert-bot/internal/store"
	"news-alert-bot/internal/types"
	"news-alert-bot/internal/watchlist"
)

// Config bounds a single scan run.
type Config struct {
	Budget    time.Duration // wall-clock ceiling for the whole run
	MaxItems  int           // newest items fetched per symbol
	Freshness time.Duration // items older than this are ignored
	Throttle  time.Duration // pause after each analyzed item
}

func ConfigFrom(cfg *store.Config) Config {
	return Config{
		Budget:    time.Duration(cfg.Scan.BudgetSeconds) * time.Second,
		MaxItems:  cfg.Scan.MaxItems,
		Freshness: time.Duration(cfg.Scan.FreshnessHours) * time.Hour,
		Throttle:  time.Duration(cfg.Scan.ThrottleSeconds) * time.Second,
	}
}

// Scanner walks the watchlist once: novel, fresh headlines are analyzed and
// actionable verdicts are dispatched. Everything runs strictly in sequence;
// the throttle is an intentional rate limit, not scheduling.
type Scanner struct {
	cfg      Config
	feed     interfaces.Fetcher
	analyst  interfaces.Analyst
	notifier interfaces.Notifier
	store    *memory.Store

	now   func() time.Time
	sleep func(time.Duration)
}

func New(cfg Config, feed interfaces.Fetcher, analyst interfaces.Analyst, notifier interfaces.Notifier, st *memory.Store) *Scanner {
	return &Scanner{
		cfg:      cfg,
		feed:     feed,
		analyst:  analyst,
		notifier: notifier,
		store:    st,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Fresh reports whether an item passes the age filter at the given instant.
// Items without a timestamp pass through: dropping them would silently
// suppress headlines from feeds that omit pubDate.
func Fresh(item types.NewsItem, now time.Time, window time.Duration) bool {
	if !item.HasTimestamp() {
		return true
	}
	return now.Sub(item.PublishedAt) <= window
}

// Run scans every watchlist entry until the list is exhausted or the budget
// elapses. Per-symbol and per-item failures are logged and skipped; the run
// always reaches its save step.
func (s *Scanner) Run(ctx context.Context, entries []watchlist.Entry) (types.ScanSummary, error) {
	op := logger.StartOperation(ctx, "watchlist-scan", "symbols", len(entries))
	ctx = op.GetContext()

	seen := s.store.Load()
	logger.Info(ctx, "Scan started", "symbols", len(entries), "known_fingerprints", seen.Len())

	var sum types.ScanSummary
	start := s.now()

	for _, entry := range entries {
		// Budget is only checked between entries; a single slow call can
		// still overrun it.
		if s.now().Sub(start) > s.cfg.Budget {
			logger.Warn(ctx, "Scan budget exceeded, abandoning remaining symbols",
				"scanned", sum.SymbolsScanned, "total", len(entries))
			sum.BudgetExpired = true
			break
		}

		items, err := s.feed.Fetch(ctx, entry.Symbol, s.cfg.MaxItems)
		if err != nil {
			logger.ErrorWithErr(ctx, "Feed fetch failed, skipping symbol", err, "symbol", entry.Symbol)
			continue
		}
		sum.SymbolsScanned++

		for _, item := range items {
			s.scanItem(ctx, entry.Symbol, item, seen, &sum)
		}
	}

	if seen.Grew() {
		if err := s.store.Save(seen); err != nil {
			logger.ErrorWithErr(ctx, "Failed to persist seen fingerprints", err)
			op.EndWithError(err)
			return sum, fmt.Errorf("save memory: %w", err)
		}
		logger.Info(ctx, "Memory updated", "fingerprints", seen.Len())
	}

	op.End("symbols_scanned", sum.SymbolsScanned, "items_seen", sum.ItemsSeen, "alerts", sum.Alerts)
	return sum, nil
}

func (s *Scanner) scanItem(ctx context.Context, symbol string, item types.NewsItem, seen *memory.Seen, sum *types.ScanSummary) {
	// Stale items are dropped before fingerprinting, so a headline that
	// ages past the window is never recorded.
	if !Fresh(item, s.now(), s.cfg.Freshness) {
		logger.Debug(ctx, "Skipping stale item", "symbol", symbol, "title", item.Title)
		return
	}

	fp := memory.Fingerprint(symbol, item.Title)
	if seen.Has(fp) {
		logger.Debug(ctx, "Skipping already-seen item", "symbol", symbol, "title", item.Title)
		return
	}

	logger.Info(ctx, "Analyzing headline", "symbol", symbol, "title", item.Title)
	verdict, err := s.analyst.Analyze(ctx, symbol, []string{item.Title})
	if err != nil {
		// The analyst fails closed, so the sentinel verdict below is a
		// guaranteed HOLD and the item is still marked as considered.
		logger.ErrorWithErr(ctx, "Analysis failed, holding", err, "symbol", symbol)
	}

	if verdict.Actionable() {
		msg := formatAlert(symbol, verdict, item)
		sum.Alerts++
		logger.Alert(ctx, symbol, verdict.Signal, verdict.Confidence, verdict.Reason, "title", item.Title)
		if err := s.notifier.Broadcast(ctx, msg); err != nil {
			logger.ErrorWithErr(ctx, "Alert delivery incomplete", err, "symbol", symbol)
		}
	}

	// Considered-but-HOLD items are recorded too, so they are not
	// re-analyzed on the next run.
	seen.Add(fp)
	sum.ItemsSeen++

	s.sleep(s.cfg.Throttle)
}

func formatAlert(symbol string, v types.Verdict, item types.NewsItem) string {
	return fmt.Sprintf("🚨 *%s*\n%s\n📰 %s\n[Source](%s)", symbol, v, item.Title, item.Link)
}
