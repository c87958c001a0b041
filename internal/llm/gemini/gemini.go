package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"news-alert-bot/internal/store"
	"news-alert-bot/internal/trace"
	"news-alert-bot/internal/types"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Analyst produces trading verdicts from headlines via the Gemini
// generateContent API. It fails closed: any transport, API, or schema
// failure yields the HOLD sentinel.
type Analyst struct {
	cfg     *store.Config
	apiKey  string
	baseURL string
	client  *http.Client
}

func New(cfg *store.Config, apiKey string) *Analyst {
	return &Analyst{
		cfg:     cfg,
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// SetBaseURL points the analyst at a different endpoint. Used by tests.
func (a *Analyst) SetBaseURL(base string) { a.baseURL = base }

// Analyze implements interfaces.Analyst for the scan loop.
func (a *Analyst) Analyze(ctx context.Context, symbol string, headlines []string) (types.Verdict, error) {
	return a.generate(ctx, scanPrompt(symbol, headlines))
}

// AnalyzeDetailed is the instant-analyst variant: the prompt additionally
// carries a market snapshot when one is available.
func (a *Analyst) AnalyzeDetailed(ctx context.Context, symbol string, headlines []string, snap *types.Snapshot) (types.Verdict, error) {
	return a.generate(ctx, analystPrompt(symbol, headlines, snap))
}

func (a *Analyst) generate(ctx context.Context, prompt string) (types.Verdict, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-api-call")
	defer span.End()

	if a.apiKey == "" {
		return types.HoldVerdict("analysis error"), errors.New("GEMINI_API_KEY missing")
	}

	body := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: &generationConfig{
			Temperature:      a.cfg.LLM.Temperature,
			MaxOutputTokens:  a.cfg.LLM.MaxTokens,
			ResponseMimeType: "application/json",
		},
	}
	bb, _ := json.Marshal(body)

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, a.cfg.LLM.Model, a.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bb))
	if err != nil {
		return types.HoldVerdict("analysis error"), err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return types.HoldVerdict("analysis error"), err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return types.HoldVerdict("analysis error"), fmt.Errorf("gemini http %d: %s", resp.StatusCode, string(msg))
	}

	var r geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return types.HoldVerdict("analysis error"), err
	}
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return types.HoldVerdict("analysis error"), errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	out := strings.TrimSpace(sb.String())

	// Schema violations are not errors for the caller: the contract is to
	// fall back to HOLD and carry on.
	var v types.Verdict
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		return types.HoldVerdict("invalid model response"), nil
	}
	v = v.Normalize()
	if !v.Valid() {
		return types.HoldVerdict("invalid model response"), nil
	}
	return v, nil
}

func scanPrompt(symbol string, headlines []string) string {
	return fmt.Sprintf(`NEWS: %s
STOCK: %s
ROLE: Algorithmic Trader.
TASK: Analyze impact on stock price.
LABELS: BUY (Positive: Split, Bonus, Expansion, Big Order). SELL (Negative: Fraud, Raid, Loss, Resignation). HOLD (Generic).
Respond ONLY with compact JSON matching this schema:
{"signal":"BUY|SELL|HOLD","confidence":"HIGH|MED|LOW","reason":"5 words max"}`,
		strings.Join(headlines, "\n"), symbol)
}

func analystPrompt(symbol string, headlines []string, snap *types.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "STOCK: %s\nRECENT NEWS:\n", symbol)
	for _, h := range headlines {
		fmt.Fprintf(&b, "- %s\n", h)
	}
	if snap != nil {
		fmt.Fprintf(&b, "MARKET SNAPSHOT: close=%.2f sma20=%.2f sma50=%.2f rsi14=%.1f\n",
			snap.Close, snap.SMA20, snap.SMA50, snap.RSI14)
	}
	b.WriteString(`ROLE: Senior Financial Analyst.
TASK: Analyze these headlines for immediate market impact.
Respond ONLY with compact JSON matching this schema:
{"signal":"BUY|SELL|HOLD","confidence":"HIGH|MED|LOW","reason":"one sentence explaining why"}`)
	return b.String()
}

type geminiRequest struct {
	Contents         []geminiContent   `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	Temperature      float32 `json:"temperature,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}
