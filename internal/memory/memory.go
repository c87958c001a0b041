package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const fingerprintTitleLen = 40

// Fingerprint derives the near-duplicate key for a symbol+headline pair.
// Two differently-worded headlines about the same event produce distinct
// fingerprints; that approximation is intentional.
func Fingerprint(symbol, title string) string {
	r := []rune(title)
	if len(r) > fingerprintTitleLen {
		r = r[:fingerprintTitleLen]
	}
	return symbol + "_" + string(r)
}

// Seen is an insertion-ordered set of fingerprints.
type Seen struct {
	order []string
	index map[string]struct{}
	grown bool
}

func newSeen(ids []string) *Seen {
	s := &Seen{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if _, dup := s.index[id]; dup {
			continue
		}
		s.index[id] = struct{}{}
		s.order = append(s.order, id)
	}
	return s
}

func (s *Seen) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Add inserts a fingerprint and reports whether it was new.
func (s *Seen) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	s.grown = true
	return true
}

func (s *Seen) Len() int { return len(s.order) }

// Grew reports whether the set gained entries since it was loaded.
func (s *Seen) Grew() bool { return s.grown }

// Store persists seen-news fingerprints between runs as a flat JSON array.
type Store struct {
	path string
	trim int
}

func NewStore(path string, trim int) *Store {
	return &Store{path: path, trim: trim}
}

// Load reads the persisted fingerprints. Any read or parse failure yields an
// empty set: the store fails open so a corrupt file never blocks a scan.
func (st *Store) Load() *Seen {
	b, err := os.ReadFile(st.path)
	if err != nil {
		return newSeen(nil)
	}
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return newSeen(nil)
	}
	return newSeen(ids)
}

// Save keeps the most recently added trim entries and rewrites the file in
// one atomic rename, so a crash mid-save leaves the previous state intact.
func (st *Store) Save(seen *Seen) error {
	ids := seen.order
	if st.trim > 0 && len(ids) > st.trim {
		ids = ids[len(ids)-st.trim:]
	}

	b, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".memory-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write memory: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), st.path)
}
