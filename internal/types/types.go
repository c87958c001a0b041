package types

import (
	"fmt"
	"strings"
	"time"
)

// NewsItem is a single headline produced by the feed collaborator.
// A zero PublishedAt means the feed carried no parseable timestamp.
type NewsItem struct {
	Title       string
	Link        string
	PublishedAt time.Time
}

func (n NewsItem) HasTimestamp() bool { return !n.PublishedAt.IsZero() }

const (
	SignalBuy  = "BUY"
	SignalSell = "SELL"
	SignalHold = "HOLD"
)

const (
	ConfidenceHigh = "HIGH"
	ConfidenceMed  = "MED"
	ConfidenceLow  = "LOW"
)

// Verdict is the structured trading signal returned by the generation API.
type Verdict struct {
	Signal     string `json:"signal"`
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}

// Normalize upper-cases the enum fields so keyword casing from the model
// never changes behavior downstream.
func (v Verdict) Normalize() Verdict {
	v.Signal = strings.ToUpper(strings.TrimSpace(v.Signal))
	v.Confidence = strings.ToUpper(strings.TrimSpace(v.Confidence))
	v.Reason = strings.TrimSpace(v.Reason)
	return v
}

func (v Verdict) Valid() bool {
	switch v.Signal {
	case SignalBuy, SignalSell, SignalHold:
	default:
		return false
	}
	switch v.Confidence {
	case ConfidenceHigh, ConfidenceMed, ConfidenceLow:
	default:
		return false
	}
	return true
}

// Actionable reports whether the verdict should raise an alert.
func (v Verdict) Actionable() bool {
	return v.Signal == SignalBuy || v.Signal == SignalSell
}

func (v Verdict) String() string {
	return fmt.Sprintf("Signal: %s | Confidence: %s | Why: %s", v.Signal, v.Confidence, v.Reason)
}

// HoldVerdict is the fail-closed sentinel used when analysis cannot produce
// a trustworthy signal.
func HoldVerdict(reason string) Verdict {
	return Verdict{Signal: SignalHold, Confidence: ConfidenceLow, Reason: reason}
}

type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// Snapshot carries recent price context for the analyst prompt.
type Snapshot struct {
	Close float64
	SMA20 float64
	SMA50 float64
	RSI14 float64
}

// ScanSummary reports what a scan run did.
type ScanSummary struct {
	SymbolsScanned int  `json:"symbols_scanned"`
	ItemsSeen      int  `json:"items_seen"`
	Alerts         int  `json:"alerts"`
	BudgetExpired  bool `json:"budget_expired"`
}
