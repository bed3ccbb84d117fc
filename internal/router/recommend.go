package router

import (
	"strings"

	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/pkg/conv"
)

const maxReasonLen = 220

// buildRecommendation selects a card deterministically from retrieval:
// the best entity-typed candidate wins, its passage text becomes the
// match reason. Returns nil when retrieval surfaced no card, letting the
// caller fall back to the FACTS pipeline.
func buildRecommendation(candidates []core.RetrievalCandidate) *core.RecommendPayload {
	for i := range candidates {
		c := &candidates[i]
		if c.Source != core.SourceCardData || c.Entity == "" {
			continue
		}
		return &core.RecommendPayload{
			Entity: c.Entity,
			Reason: cleanReason(c.Text, c.Entity),
		}
	}
	return nil
}

// cleanReason strips markdown/annotation artifacts and a duplicated
// leading entity name from the match reason, so the reply reads as one
// sentence instead of a pasted card sheet.
func cleanReason(text, entityName string) string {
	reason := conv.StripMarkdown(text)

	upper := strings.ToUpper(reason)
	prefix := strings.ToUpper(entityName)
	if strings.HasPrefix(upper, prefix) {
		reason = strings.TrimSpace(reason[len(entityName):])
		reason = strings.TrimLeft(reason, ":-–— ")
	}

	if len(reason) > maxReasonLen {
		if cut := strings.LastIndex(reason[:maxReasonLen], " "); cut > 0 {
			reason = reason[:cut]
		} else {
			reason = reason[:maxReasonLen]
		}
		reason += "…"
	}
	return reason
}
