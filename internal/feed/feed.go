package feed

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"news-alert-bot/internal/logger"
	"news-alert-bot/internal/store"
	"news-alert-bot/internal/types"
)

const defaultBaseURL = "https://news.google.com"

// Client fetches per-symbol headlines from the Google News RSS search,
// falling back to an HTML scrape of the search page when the feed comes
// back empty or broken.
type Client struct {
	parser  *gofeed.Parser
	scraper *Scraper
	baseURL string
	query   string
	lang    string
	region  string
	edition string
	timeout time.Duration
}

func NewClient(cfg *store.Config) *Client {
	timeout := time.Duration(cfg.Feed.TimeoutSeconds) * time.Second
	return &Client{
		parser:  gofeed.NewParser(),
		scraper: NewScraper(defaultBaseURL, timeout),
		baseURL: defaultBaseURL,
		query:   cfg.Feed.Query,
		lang:    cfg.Feed.Lang,
		region:  cfg.Feed.Region,
		edition: cfg.Feed.Edition,
		timeout: timeout,
	}
}

// SetBaseURL points the client (and its fallback scraper) at a different
// host. Used by tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
	c.scraper = NewScraper(base, c.timeout)
}

// Fetch returns up to limit of the most recent items for a symbol.
func (c *Client) Fetch(ctx context.Context, symbol string, limit int) ([]types.NewsItem, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	feedURL := c.searchURL(symbol)
	parsed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		logger.Warn(ctx, "RSS fetch failed, trying HTML fallback", "symbol", symbol, "error", err)
		return c.scraper.Scrape(ctx, symbol+" "+c.query, limit)
	}

	items := make([]types.NewsItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		item := types.NewsItem{
			Title: cleanHTML(it.Title),
			Link:  it.Link,
		}
		if it.PublishedParsed != nil {
			item.PublishedAt = *it.PublishedParsed
		}
		items = append(items, item)
		if limit > 0 && len(items) >= limit {
			break
		}
	}

	if len(items) == 0 {
		logger.Info(ctx, "RSS returned no items, trying HTML fallback", "symbol", symbol)
		return c.scraper.Scrape(ctx, symbol+" "+c.query, limit)
	}

	return items, nil
}

func (c *Client) searchURL(symbol string) string {
	q := url.QueryEscape(symbol + " " + c.query)
	return fmt.Sprintf("%s/rss/search?q=%s&hl=%s&gl=%s&ceid=%s",
		c.baseURL, q, c.lang, c.region, url.QueryEscape(c.edition))
}

// cleanHTML strips markup from feed-supplied text using goquery.
func cleanHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
