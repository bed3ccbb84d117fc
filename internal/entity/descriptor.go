package entity

import (
	"regexp"
	"strings"
)

// DescriptorMatcher recognizes "descriptive discovery" phrasing: the user
// is asking for a card by vibe rather than by name ("what's the rarest
// fake?"). The classifier tends to silence these, so the router overrides
// NORESPONSE to FACTS when one fires.
type DescriptorMatcher struct {
	index *Index
}

func NewDescriptorMatcher(index *Index) *DescriptorMatcher {
	return &DescriptorMatcher{index: index}
}

var (
	domainNounRe  = regexp.MustCompile(`(?i)\b(cards?|fakes?|rares?|pepes?|assets?|dankest\s+drops?)\b`)
	questionRe    = regexp.MustCompile(`(?i)\b(what|which|who|whats|any|got|is there|are there)\b`)
	superlativeRe = regexp.MustCompile(`(?i)\b(best|coolest|rarest|dankest|funniest|weirdest|scariest|most\s+\w+|favou?rite|top)\b`)
)

// Matches reports whether text reads as a discovery query: a domain noun,
// a question word, and a subjective superlative, with no explicit catalog
// entity and no asset-style all-caps token.
func (m *DescriptorMatcher) Matches(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	if !domainNounRe.MatchString(trimmed) ||
		!questionRe.MatchString(trimmed) ||
		!superlativeRe.MatchString(trimmed) {
		return false
	}

	if m.index != nil && len(m.index.Match(trimmed)) > 0 {
		return false
	}
	return !HasAssetToken(trimmed)
}
