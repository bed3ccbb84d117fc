package knowledge

import (
	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/internal/entity"
)

// FastPathResult is the card fast-path verdict for one retrieval pass.
type FastPathResult struct {
	Triggered bool
	Primary   *core.RetrievalCandidate
	Margin    float64
}

// FastPathDetector short-circuits full synthesis when one card dominates
// retrieval. It stays quiet when the user already named that card: there
// is nothing to announce, the normal pipeline should just answer.
type FastPathDetector struct {
	margin float64
}

func NewFastPathDetector(margin float64) *FastPathDetector {
	return &FastPathDetector{margin: margin}
}

func (d *FastPathDetector) Detect(candidates []core.RetrievalCandidate, rawQuery string) FastPathResult {
	top := topEntityCandidate(candidates)
	if top == nil {
		return FastPathResult{}
	}

	runnerUp := 0.0
	for i := range candidates {
		c := &candidates[i]
		if c.Entity == top.Entity && c.Source == core.SourceCardData {
			continue
		}
		if c.WeightedScore > runnerUp {
			runnerUp = c.WeightedScore
		}
	}

	margin := top.WeightedScore - runnerUp
	if margin < d.margin {
		return FastPathResult{Primary: top, Margin: margin}
	}
	if entity.Mentions(rawQuery, top.Entity) {
		return FastPathResult{Primary: top, Margin: margin}
	}

	return FastPathResult{Triggered: true, Primary: top, Margin: margin}
}

// topEntityCandidate returns the highest-weighted card-data candidate that
// names an entity. Candidates arrive sorted by weighted score.
func topEntityCandidate(candidates []core.RetrievalCandidate) *core.RetrievalCandidate {
	for i := range candidates {
		if candidates[i].Source == core.SourceCardData && candidates[i].Entity != "" {
			return &candidates[i]
		}
	}
	return nil
}
