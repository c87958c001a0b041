package noop

import (
	"context"

	"news-alert-bot/internal/logger"
	"news-alert-bot/internal/types"
)

// Analyst is a fallback used in dry runs when no generation API is wired.
type Analyst struct{}

// New returns an analyst that always answers HOLD.
func New() *Analyst {
	return &Analyst{}
}

// Analyze implements the Analyst interface. It never raises an alert.
func (a *Analyst) Analyze(ctx context.Context, symbol string, headlines []string) (types.Verdict, error) {
	logger.Debug(ctx, "Noop analyst called - always returns HOLD", "symbol", symbol)
	return types.Verdict{
		Signal:     types.SignalHold,
		Confidence: types.ConfidenceLow,
		Reason:     "noop analyst",
	}, nil
}
