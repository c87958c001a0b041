package interfaces

import (
	"context"

	"news-alert-bot/internal/types"
)

// Fetcher returns the most recent headlines for a symbol, newest first.
type Fetcher interface {
	Fetch(ctx context.Context, symbol string, limit int) ([]types.NewsItem, error)
}

// Analyst turns a symbol and its headlines into a trading verdict.
// Implementations must fail closed: on any analysis failure they return the
// HOLD sentinel alongside the error so callers can log and continue.
type Analyst interface {
	Analyze(ctx context.Context, symbol string, headlines []string) (types.Verdict, error)
}

// Notifier delivers messages to chat recipients.
type Notifier interface {
	// Broadcast sends to every configured recipient independently; one
	// recipient failing never blocks the others.
	Broadcast(ctx context.Context, text string) error
	SendTo(ctx context.Context, chatID, text string) error
}
