package feed

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"news-alert-bot/internal/logger"
	"news-alert-bot/internal/types"
)

// Scraper is the HTML fallback for when the RSS search yields nothing.
// Items scraped this way carry no timestamp.
type Scraper struct {
	baseURL string
	timeout time.Duration
}

func NewScraper(baseURL string, timeout time.Duration) *Scraper {
	return &Scraper{baseURL: baseURL, timeout: timeout}
}

// Scrape searches the Google News web page for the query and extracts up to
// limit headlines.
func (s *Scraper) Scrape(ctx context.Context, query string, limit int) ([]types.NewsItem, error) {
	items := []types.NewsItem{}

	c := colly.NewCollector(
		colly.AllowedDomains(domainOf(s.baseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	// Plain UA requests get served a consent interstitial.
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML("article", func(e *colly.HTMLElement) {
		if limit > 0 && len(items) >= limit {
			return
		}

		title := strings.TrimSpace(e.ChildText("h3, h4"))
		link := e.ChildAttr("a", "href")
		if title == "" || link == "" {
			return
		}
		if strings.HasPrefix(link, "./articles/") {
			link = s.baseURL + link[1:]
		}

		items = append(items, types.NewsItem{Title: title, Link: link})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "News page scrape error", err, "url", r.Request.URL.String())
	})

	searchURL := fmt.Sprintf("%s/search?q=%s", s.baseURL, url.QueryEscape(query))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to scrape %s: %w", searchURL, err)
	}
	c.Wait()

	logger.Info(ctx, "News page scrape completed", "query", query, "items", len(items))
	return items, nil
}

func domainOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
