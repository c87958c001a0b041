package watchlist

import (
	"fmt"
	"os"
	"strings"
)

// Entry is one watched ticker. Symbol is the name as listed in the file,
// used for news queries and fingerprints; Market carries the exchange
// suffix for quote lookups.
type Entry struct {
	Symbol string
	Market string
}

// Load reads a newline-delimited symbol list. Blank lines and lines
// starting with '#' are ignored. marketSuffix is appended to symbols that
// don't already carry an exchange suffix.
func Load(path, marketSuffix string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}

	var entries []Entry
	for _, line := range strings.Split(string(b), "\n") {
		sym := strings.TrimSpace(line)
		if sym == "" || strings.HasPrefix(sym, "#") {
			continue
		}
		market := sym
		if !strings.Contains(sym, ".") {
			market = sym + marketSuffix
		}
		entries = append(entries, Entry{Symbol: sym, Market: market})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("watchlist %s contains no symbols", path)
	}
	return entries, nil
}
