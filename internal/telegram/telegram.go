package telegram

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

	"news-alert-bot/internal/logger"
)

// MaxMessageLen is the Telegram Bot API payload ceiling for one message.
const MaxMessageLen = 4096

const defaultBaseURL = "https://api.telegram.org"

// Client delivers messages through the Telegram Bot API. Messages longer
// than the API ceiling are chunked; a send rejected in Markdown mode is
// retried as plain text.
type Client struct {
	token   string
	chatIDs []string
	baseURL string
	httpc   *http.Client
}

func New(token string, chatIDs []string) *Client {
	return &Client{
		token:   token,
		chatIDs: chatIDs,
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SetBaseURL points the client at a different API host. Used by tests.
func (c *Client) SetBaseURL(base string) { c.baseURL = base }

// Broadcast sends text to every configured chat id. Each recipient is
// contacted independently; failures are collected, never short-circuited.
func (c *Client) Broadcast(ctx context.Context, text string) error {
	var errs []error
	for _, id := range c.chatIDs {
		if err := c.SendTo(ctx, id, text); err != nil {
			logger.ErrorWithErr(ctx, "Telegram delivery failed", err, "chat_id", id)
			errs = append(errs, fmt.Errorf("chat %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// SendTo sends text to a single chat, chunked to the API ceiling.
func (c *Client) SendTo(ctx context.Context, chatID, text string) error {
	for _, chunk := range splitMessage(text, MaxMessageLen) {
		if err := c.sendChunk(ctx, chatID, chunk, true); err != nil {
			logger.Warn(ctx, "Markdown send rejected, retrying plain text", "chat_id", chatID, "error", err)
			if err := c.sendChunk(ctx, chatID, chunk, false); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Client) sendChunk(ctx context.Context, chatID, text string, markdown bool) error {
	payload := map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	}
	if markdown {
		payload["parse_mode"] = "Markdown"
	}
	bb, _ := json.Marshal(payload)

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bb))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram http %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}

// splitMessage cuts text into pieces of at most limit runes, preferring to
// break at a line boundary so chunks stay readable.
func splitMessage(s string, limit int) []string {
	r := []rune(s)
	if len(r) <= limit {
		return []string{s}
	}

	var chunks []string
	for len(r) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if r[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimRight(string(r[:cut]), "\n"))
		r = r[cut:]
	}
	if rest := strings.TrimRight(string(r), "\n"); rest != "" {
		chunks = append(chunks, rest)
	}
	return chunks
}
