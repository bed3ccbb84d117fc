package knowledge

import (
	"fmt"
	"testing"

	"github.com/sandevgo/pepebot/internal/core"
)

func cand(id, text string, score float64) core.RetrievalCandidate {
	return core.RetrievalCandidate{ID: id, Text: text, Similarity: score, WeightedScore: score, Source: core.SourceWiki}
}

func TestSelectTopK(t *testing.T) {
	candidates := []core.RetrievalCandidate{
		cand("a", "alpha", 0.9),
		cand("b", "beta", 0.8),
		cand("c", "gamma", 0.7),
	}

	tests := []struct {
		n       int
		wantIDs []string
	}{
		{n: 2, wantIDs: []string{"a", "b"}},
		{n: 5, wantIDs: []string{"a", "b", "c"}},
		{n: 0, wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			got := SelectTopK(candidates, tt.n)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d candidates, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("got[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSelectMMR_NoRepeatsAndBounded(t *testing.T) {
	candidates := []core.RetrievalCandidate{
		cand("a", "the frog king rules the swamp", 0.9),
		cand("b", "the frog king rules the swamp today", 0.85),
		cand("c", "auction night went wild last summer", 0.8),
		cand("d", "someone burned a whole stack of cards", 0.75),
	}

	got := SelectMMR(candidates, 3, 0.7)
	if len(got) != 3 {
		t.Fatalf("selected %d, want 3", len(got))
	}
	seen := make(map[string]bool)
	for _, c := range got {
		if seen[c.ID] {
			t.Fatalf("duplicate id %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestSelectMMR_PrefersDiversity(t *testing.T) {
	// b is a near-duplicate of a; c is distinct but slightly less relevant.
	candidates := []core.RetrievalCandidate{
		cand("a", "the frog king rules the swamp tonight", 0.90),
		cand("b", "the frog king rules the swamp tonight again", 0.89),
		cand("c", "auction night went absolutely wild", 0.80),
	}

	got := SelectMMR(candidates, 2, 0.5)
	if got[0].ID != "a" {
		t.Fatalf("first pick = %s, want most relevant a", got[0].ID)
	}
	if got[1].ID != "c" {
		t.Errorf("second pick = %s, want diverse c over near-duplicate b", got[1].ID)
	}
}

func TestSelectMMR_ZeroVarianceDegradesToTopK(t *testing.T) {
	candidates := []core.RetrievalCandidate{
		cand("a", "one two three", 0.5),
		cand("b", "one two three four", 0.5),
		cand("c", "totally different words", 0.5),
	}

	got := SelectMMR(candidates, 2, 0.7)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("zero-variance selection = %v, want plain top-K order a,b", ids(got))
	}
}

func TestSelectMMR_RequestBeyondInput(t *testing.T) {
	candidates := []core.RetrievalCandidate{cand("a", "alpha", 0.4)}
	got := SelectMMR(candidates, 10, 0.7)
	if len(got) != 1 {
		t.Errorf("selected %d, want 1", len(got))
	}
}

func ids(cands []core.RetrievalCandidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.ID
	}
	return out
}
