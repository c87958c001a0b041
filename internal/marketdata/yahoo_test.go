package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"news-alert-bot/internal/types"
)

func chartJSON(timestamps []int64, closes []*float64) string {
	payload := map[string]any{
		"chart": map[string]any{
			"result": []map[string]any{{
				"timestamp": timestamps,
				"indicators": map[string]any{
					"quote": []map[string]any{{
						"open":   closes,
						"high":   closes,
						"low":    closes,
						"close":  closes,
						"volume": closes,
					}},
				},
			}},
			"error": nil,
		},
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func f(v float64) *float64 { return &v }

func TestCandlesParsesChart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v8/finance/chart/TCS.NS") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("range"); got != "90d" {
			t.Errorf("expected range=90d, got %s", got)
		}
		fmt.Fprint(w, chartJSON(
			[]int64{1000, 2000, 3000},
			[]*float64{f(100), nil, f(102)},
		))
	}))
	defer srv.Close()

	c := NewClient()
	c.SetBaseURL(srv.URL)

	candles, err := c.Candles(context.Background(), "TCS.NS", 90, "1d")
	if err != nil {
		t.Fatalf("Candles: %v", err)
	}
	// Null close row is dropped.
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if candles[0].Close != 100 || candles[1].Close != 102 {
		t.Errorf("unexpected closes: %+v", candles)
	}
	if candles[1].Ts != 3000 {
		t.Errorf("expected ts 3000, got %d", candles[1].Ts)
	}
}

func TestCandlesChartError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer srv.Close()

	c := NewClient()
	c.SetBaseURL(srv.URL)

	if _, err := c.Candles(context.Background(), "NOPE", 30, "1d"); err == nil {
		t.Error("expected error from chart error payload")
	}
}

func TestCandlesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient()
	c.SetBaseURL(srv.URL)

	if _, err := c.Candles(context.Background(), "TCS.NS", 30, "1d"); err == nil {
		t.Error("expected error on HTTP 429")
	}
}

func TestSnapshot(t *testing.T) {
	var candles []types.Candle
	for i := 0; i < 60; i++ {
		candles = append(candles, types.Candle{Ts: int64(i), Close: 100 + float64(i)})
	}

	snap := Snapshot(candles)
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	if snap.Close != 159 {
		t.Errorf("expected last close 159, got %v", snap.Close)
	}
	// SMA20 over closes 140..159 = 149.5
	if snap.SMA20 != 149.5 {
		t.Errorf("expected SMA20 149.5, got %v", snap.SMA20)
	}
	if snap.RSI14 != 100 {
		t.Errorf("rising series should give RSI 100, got %v", snap.RSI14)
	}

	// Too little history: indicators degrade to zero, close survives.
	snap = Snapshot(candles[:3])
	if snap.SMA20 != 0 || snap.SMA50 != 0 {
		t.Errorf("expected zero SMAs for short history, got %+v", snap)
	}
	if snap.Close != 102 {
		t.Errorf("expected close 102, got %v", snap.Close)
	}

	if Snapshot(nil) != nil {
		t.Error("empty candle slice should give nil snapshot")
	}
}
