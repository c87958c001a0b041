package watchlist

import (
	"os"
	"path/filepath"
	"testing"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "watchlist.txt")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadSkipsBlanksAndComments(t *testing.T) {
	p := writeList(t, "TCS\n\n# banks\nHDFCBANK\n   \nINFY\n")

	entries, err := Load(p, ".NS")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Symbol != "TCS" || entries[1].Symbol != "HDFCBANK" || entries[2].Symbol != "INFY" {
		t.Errorf("unexpected symbols: %+v", entries)
	}
}

func TestLoadAppendsMarketSuffix(t *testing.T) {
	p := writeList(t, "TCS\nRELIANCE.BO\n")

	entries, err := Load(p, ".NS")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if entries[0].Market != "TCS.NS" {
		t.Errorf("expected TCS.NS, got %s", entries[0].Market)
	}
	// Already-suffixed symbols are left alone.
	if entries[1].Market != "RELIANCE.BO" {
		t.Errorf("expected RELIANCE.BO, got %s", entries[1].Market)
	}
	if entries[1].Symbol != "RELIANCE.BO" {
		t.Errorf("expected symbol RELIANCE.BO, got %s", entries[1].Symbol)
	}
}

func TestLoadEmptyFileFails(t *testing.T) {
	p := writeList(t, "\n# nothing here\n")
	if _, err := Load(p, ".NS"); err == nil {
		t.Error("expected error for empty watchlist")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt"), ".NS"); err == nil {
		t.Error("expected error for missing file")
	}
}
