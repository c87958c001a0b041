package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	WatchlistPath string `yaml:"watchlist_path"`
	MemoryPath    string `yaml:"memory_path"`
	MarketSuffix  string `yaml:"market_suffix"`

	Scan struct {
		BudgetSeconds   int `yaml:"budget_seconds"`
		MaxItems        int `yaml:"max_items"`
		FreshnessHours  int `yaml:"freshness_hours"`
		ThrottleSeconds int `yaml:"throttle_seconds"`
		MemoryTrim      int `yaml:"memory_trim"`
	} `yaml:"scan"`

	Feed struct {
		Query          string `yaml:"query"` // appended to the symbol in the search
		Lang           string `yaml:"lang"`
		Region         string `yaml:"region"`
		Edition        string `yaml:"edition"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"feed"`

	LLM struct {
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"llm"`

	Analyst struct {
		FreshnessHours int    `yaml:"freshness_hours"`
		LookbackDays   int    `yaml:"lookback_days"`
		Interval       string `yaml:"interval"`
	} `yaml:"analyst"`
}

// Credentials are the secrets the bot needs. They come only from the
// environment and are resolved once at process start, then passed in
// explicitly wherever needed.
type Credentials struct {
	BotToken     string
	ChatIDs      []string
	GeminiAPIKey string
}

func (c *Config) Validate() error {
	if c.WatchlistPath == "" {
		return errors.New("watchlist_path cannot be empty")
	}
	if c.MemoryPath == "" {
		return errors.New("memory_path cannot be empty")
	}
	if c.Scan.MaxItems <= 0 {
		return fmt.Errorf("scan.max_items must be positive, got %d", c.Scan.MaxItems)
	}
	if c.Scan.FreshnessHours <= 0 {
		return fmt.Errorf("scan.freshness_hours must be positive, got %d", c.Scan.FreshnessHours)
	}
	if c.Scan.MemoryTrim <= 0 {
		return fmt.Errorf("scan.memory_trim must be positive, got %d", c.Scan.MemoryTrim)
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model cannot be empty")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.WatchlistPath == "" {
		c.WatchlistPath = "watchlist.txt"
	}
	if c.MemoryPath == "" {
		c.MemoryPath = "news_memory.json"
	}
	if c.MarketSuffix == "" {
		c.MarketSuffix = ".NS"
	}
	if c.Scan.BudgetSeconds == 0 {
		c.Scan.BudgetSeconds = 270
	}
	if c.Scan.MaxItems == 0 {
		c.Scan.MaxItems = 5
	}
	if c.Scan.FreshnessHours == 0 {
		c.Scan.FreshnessHours = 24
	}
	if c.Scan.ThrottleSeconds == 0 {
		c.Scan.ThrottleSeconds = 2
	}
	if c.Scan.MemoryTrim == 0 {
		c.Scan.MemoryTrim = 2000
	}
	if c.Feed.Query == "" {
		c.Feed.Query = "share news india"
	}
	if c.Feed.Lang == "" {
		c.Feed.Lang = "en-IN"
	}
	if c.Feed.Region == "" {
		c.Feed.Region = "IN"
	}
	if c.Feed.Edition == "" {
		c.Feed.Edition = "IN:en"
	}
	if c.Feed.TimeoutSeconds == 0 {
		c.Feed.TimeoutSeconds = 20
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gemini-2.5-flash"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 256
	}
	if c.Analyst.FreshnessHours == 0 {
		c.Analyst.FreshnessHours = 48
	}
	if c.Analyst.LookbackDays == 0 {
		c.Analyst.LookbackDays = 90
	}
	if c.Analyst.Interval == "" {
		c.Analyst.Interval = "1d"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// LoadCredentials resolves secrets from the environment. A missing variable
// is a configuration error and fatal to the run.
func LoadCredentials() (Credentials, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return Credentials{}, errors.New("TELEGRAM_BOT_TOKEN missing")
	}
	rawIDs := os.Getenv("TELEGRAM_CHAT_ID")
	if rawIDs == "" {
		return Credentials{}, errors.New("TELEGRAM_CHAT_ID missing")
	}
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return Credentials{}, errors.New("GEMINI_API_KEY missing")
	}

	var ids []string
	for _, id := range strings.Split(rawIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return Credentials{}, errors.New("TELEGRAM_CHAT_ID contains no usable ids")
	}

	return Credentials{BotToken: token, ChatIDs: ids, GeminiAPIKey: apiKey}, nil
}
