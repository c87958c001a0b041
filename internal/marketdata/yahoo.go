package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"news-alert-bot/internal/ta"
	"news-alert-bot/internal/types"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches daily candles from the public Yahoo chart endpoint.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: 20 * time.Second},
	}
}

// SetBaseURL points the client at a different host. Used by tests.
func (c *Client) SetBaseURL(base string) { c.baseURL = base }

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Candles returns up to lookbackDays of candles for a symbol, oldest first.
// Rows with a missing close are dropped.
func (c *Client) Candles(ctx context.Context, symbol string, lookbackDays int, interval string) ([]types.Candle, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%dd&interval=%s",
		c.baseURL, url.PathEscape(symbol), lookbackDays, url.QueryEscape(interval))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	// The endpoint rejects the default Go user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("chart http %d: %s", resp.StatusCode, string(msg))
	}

	var r chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, err
	}
	if r.Chart.Error != nil {
		return nil, fmt.Errorf("chart error %s: %s", r.Chart.Error.Code, r.Chart.Error.Description)
	}
	if len(r.Chart.Result) == 0 || len(r.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart returned no data for %s", symbol)
	}

	res := r.Chart.Result[0]
	q := res.Indicators.Quote[0]

	candles := make([]types.Candle, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		cd := types.Candle{Ts: ts, Close: *q.Close[i]}
		if i < len(q.Open) && q.Open[i] != nil {
			cd.Open = *q.Open[i]
		}
		if i < len(q.High) && q.High[i] != nil {
			cd.High = *q.High[i]
		}
		if i < len(q.Low) && q.Low[i] != nil {
			cd.Low = *q.Low[i]
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			cd.Vol = *q.Volume[i]
		}
		candles = append(candles, cd)
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("chart returned no usable closes for %s", symbol)
	}
	return candles, nil
}

// Snapshot condenses candles into the price context the analyst prompt
// carries. Indicators that cannot be computed from the available history
// are reported as zero.
func Snapshot(candles []types.Candle) *types.Snapshot {
	if len(candles) == 0 {
		return nil
	}
	closes := make([]float64, len(candles))
	for i, cd := range candles {
		closes[i] = cd.Close
	}
	return &types.Snapshot{
		Close: closes[len(closes)-1],
		SMA20: nanToZero(ta.SMA(closes, 20)),
		SMA50: nanToZero(ta.SMA(closes, 50)),
		RSI14: nanToZero(ta.RSI(closes, 14)),
	}
}

func nanToZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
