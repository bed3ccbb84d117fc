package knowledge

import (
	"testing"

	"github.com/sandevgo/pepebot/internal/core"
)

func cardCand(id, entityName string, score float64) core.RetrievalCandidate {
	return core.RetrievalCandidate{
		ID:            id,
		Source:        core.SourceCardData,
		Entity:        entityName,
		Text:          entityName + " card data",
		Similarity:    score,
		WeightedScore: score,
	}
}

func TestFastPathDetector(t *testing.T) {
	d := NewFastPathDetector(0.15)

	tests := []struct {
		name       string
		candidates []core.RetrievalCandidate
		query      string
		want       bool
		wantEntity string
	}{
		{
			name: "dominant_entity_triggers",
			candidates: []core.RetrievalCandidate{
				cardCand("c1", "FREEDOMKEK", 0.92),
				cand("w1", "some wiki text", 0.60),
			},
			query:      "that green freedom one",
			want:       true,
			wantEntity: "FREEDOMKEK",
		},
		{
			name: "thin_margin_does_not_trigger",
			candidates: []core.RetrievalCandidate{
				cardCand("c1", "FREEDOMKEK", 0.80),
				cand("w1", "some wiki text", 0.75),
			},
			query: "that green freedom one",
			want:  false,
		},
		{
			name: "explicitly_named_skips_announcement",
			candidates: []core.RetrievalCandidate{
				cardCand("c1", "FREEDOMKEK", 0.92),
				cand("w1", "some wiki text", 0.40),
			},
			query: "tell me about FREEDOMKEK",
			want:  false,
		},
		{
			name: "same_entity_runner_up_ignored",
			candidates: []core.RetrievalCandidate{
				cardCand("c1", "FREEDOMKEK", 0.92),
				cardCand("c2", "FREEDOMKEK", 0.90),
				cand("w1", "some wiki text", 0.50),
			},
			query:      "the freedom card with the flag",
			want:       true,
			wantEntity: "FREEDOMKEK",
		},
		{
			name: "no_entity_candidates",
			candidates: []core.RetrievalCandidate{
				cand("w1", "some wiki text", 0.90),
			},
			query: "anything",
			want:  false,
		},
		{
			name:       "empty_retrieval",
			candidates: nil,
			query:      "anything",
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.candidates, tt.query)
			if got.Triggered != tt.want {
				t.Fatalf("Triggered = %v, want %v (margin %.2f)", got.Triggered, tt.want, got.Margin)
			}
			if tt.want && got.Primary.Entity != tt.wantEntity {
				t.Errorf("Primary.Entity = %s, want %s", got.Primary.Entity, tt.wantEntity)
			}
		})
	}
}
