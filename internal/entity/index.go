package entity

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
)

var tokenRe = regexp.MustCompile(`[A-Za-z0-9.]+`)

// assetRe matches asset-style all-caps tokens (XCP naming rules: upper
// alphanumerics, at least 4 chars, not starting with a digit).
var assetRe = regexp.MustCompile(`^[A-Z][A-Z0-9.]{3,}$`)

// Index is the known-card token index. Matching is exact and
// case-insensitive over whole tokens, never substring.
type Index struct {
	mu    sync.RWMutex
	names map[string]string // upper token -> canonical name
}

func NewIndex(names []string) *Index {
	idx := &Index{names: make(map[string]string, len(names))}
	idx.Add(names...)
	return idx
}

func (i *Index) Add(names ...string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		i.names[strings.ToUpper(n)] = n
	}
}

func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.names)
}

// Known reports whether name is in the catalog, ignoring case.
func (i *Index) Known(name string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.names[strings.ToUpper(name)]
	return ok
}

// Match returns the canonical names of catalog entities mentioned in text
// as whole tokens, in order of first appearance, without duplicates.
func (i *Index) Match(text string) []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	var found []string
	seen := make(map[string]struct{})
	for _, tok := range tokenRe.FindAllString(text, -1) {
		canonical, ok := i.names[strings.ToUpper(tok)]
		if !ok {
			continue
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		found = append(found, canonical)
	}
	return found
}

// Mentions reports whether text names the entity as a whole token,
// ignoring case.
func Mentions(text, name string) bool {
	if name == "" {
		return false
	}
	upper := strings.ToUpper(name)
	for _, tok := range tokenRe.FindAllString(text, -1) {
		if strings.ToUpper(tok) == upper {
			return true
		}
	}
	return false
}

// HasAssetToken reports whether text contains an asset-style all-caps
// token that is not a common English shout.
func HasAssetToken(text string) bool {
	for _, tok := range tokenRe.FindAllString(text, -1) {
		if !assetRe.MatchString(tok) {
			continue
		}
		if _, common := commonShouts[tok]; common {
			continue
		}
		return true
	}
	return false
}

// Uppercase tokens that appear in chat without naming an asset.
var commonShouts = map[string]struct{}{
	"LMAO": {}, "LMFAO": {}, "ROFL": {}, "IMHO": {}, "IMO": {},
	"WAGMI": {}, "NGMI": {}, "GMGN": {}, "HODL": {}, "FOMO": {},
	"WHAT": {}, "THIS": {}, "NICE": {}, "YOLO": {}, "ASAP": {},
}

// SeedCatalog covers the handful of cards everyone asks about, so entity
// matching works before an operator installs a full catalog file.
var SeedCatalog = []string{
	"RAREPEPE",
	"PEPECASH",
	"FREEDOMKEK",
	"FAKEASF",
	"LORDKEK",
}

type catalogEntry struct {
	Name   string `json:"name"`
	Asset  string `json:"asset"`
	Series string `json:"series"`
}

// LoadCatalog reads a card catalog JSON file. Accepts either a plain list
// of names or a list of card objects.
func LoadCatalog(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		return NewIndex(names), nil
	}

	var entries []catalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	names = make([]string, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.Asset != "":
			names = append(names, e.Asset)
		case e.Name != "":
			names = append(names, e.Name)
		}
	}
	return NewIndex(names), nil
}
