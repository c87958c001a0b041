package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "watchlist_path: wl.txt\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MemoryPath != "news_memory.json" {
		t.Errorf("memory_path default = %q", cfg.MemoryPath)
	}
	if cfg.MarketSuffix != ".NS" {
		t.Errorf("market_suffix default = %q", cfg.MarketSuffix)
	}
	if cfg.Scan.BudgetSeconds != 270 || cfg.Scan.MaxItems != 5 || cfg.Scan.MemoryTrim != 2000 {
		t.Errorf("scan defaults: %+v", cfg.Scan)
	}
	if cfg.LLM.Model != "gemini-2.5-flash" {
		t.Errorf("llm model default = %q", cfg.LLM.Model)
	}
	if cfg.Analyst.FreshnessHours != 48 || cfg.Analyst.LookbackDays != 90 {
		t.Errorf("analyst defaults: %+v", cfg.Analyst)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
watchlist_path: wl.txt
scan:
  budget_seconds: 60
  max_items: 3
feed:
  query: stock news
`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Scan.BudgetSeconds != 60 || cfg.Scan.MaxItems != 3 {
		t.Errorf("scan overrides not applied: %+v", cfg.Scan)
	}
	if cfg.Feed.Query != "stock news" {
		t.Errorf("feed query = %q", cfg.Feed.Query)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "watchlist_path: wl.txt\nscan:\n  max_items: -1\n")); err == nil {
		t.Error("negative max_items should fail validation")
	}
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", " 123, 456 ,")
	t.Setenv("GEMINI_API_KEY", "key")

	creds, err := LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials: %v", err)
	}
	if creds.BotToken != "tok" || creds.GeminiAPIKey != "key" {
		t.Errorf("unexpected creds: %+v", creds)
	}
	if len(creds.ChatIDs) != 2 || creds.ChatIDs[0] != "123" || creds.ChatIDs[1] != "456" {
		t.Errorf("chat ids = %v", creds.ChatIDs)
	}
}

func TestLoadCredentialsMissing(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "123")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := LoadCredentials(); err == nil {
		t.Error("missing GEMINI_API_KEY should fail")
	}
}
