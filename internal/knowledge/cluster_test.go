package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/pepebot/internal/core"
)

type stubCompleter struct {
	response string
	err      error
	calls    int
}

func (s *stubCompleter) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	s.calls++
	return s.response, s.err
}

func TestClusterer_Partition(t *testing.T) {
	c := NewClusterer(nil)

	tests := []struct {
		name         string
		count        int
		wantClusters int
	}{
		{name: "empty", count: 0, wantClusters: 0},
		{name: "below_target_singletons", count: 2, wantClusters: 2},
		{name: "at_target_singletons", count: 3, wantClusters: 3},
		{name: "above_target_merges_to_target", count: 6, wantClusters: 3},
		{name: "well_above_target", count: 12, wantClusters: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passages := make([]core.RetrievalCandidate, tt.count)
			for i := range passages {
				passages[i] = cand(fmt.Sprintf("p%d", i), fmt.Sprintf("passage number %d about topic %d", i, i%3), 0.5)
			}

			clusters := c.Cluster(passages)
			if len(clusters) != tt.wantClusters {
				t.Fatalf("cluster count = %d, want %d", len(clusters), tt.wantClusters)
			}

			// every input id in exactly one output cluster
			seen := make(map[string]int)
			for _, cluster := range clusters {
				for _, p := range cluster {
					seen[p.ID]++
				}
			}
			if len(seen) != tt.count {
				t.Errorf("partition covers %d ids, want %d", len(seen), tt.count)
			}
			for id, n := range seen {
				if n != 1 {
					t.Errorf("id %s appears in %d clusters", id, n)
				}
			}
		})
	}
}

func TestClusterer_MergesMostSimilarPair(t *testing.T) {
	c := NewClusterer(nil)
	passages := []core.RetrievalCandidate{
		cand("a", "the frog king rules the swamp", 0.5),
		cand("b", "the frog king rules the swamp forever", 0.5),
		cand("c", "auction night was wild", 0.5),
		cand("d", "dispensers ran dry by morning", 0.5),
	}

	clusters := c.Cluster(passages)
	if len(clusters) != 3 {
		t.Fatalf("cluster count = %d, want 3", len(clusters))
	}

	for _, cluster := range clusters {
		if len(cluster) == 2 {
			got := map[string]bool{cluster[0].ID: true, cluster[1].ID: true}
			if !got["a"] || !got["b"] {
				t.Errorf("merged pair = %v, want a+b", cluster)
			}
			return
		}
	}
	t.Error("no merged pair found")
}

func TestClusterer_SummarizeLLM(t *testing.T) {
	completer := &stubCompleter{response: "A tidy summary."}
	c := NewClusterer(completer)

	passages := []core.RetrievalCandidate{
		cand("w1", "FREEDOMKEK was minted in 2021. It sold out fast.", 0.9),
	}

	summaries := c.BuildSummaries(context.Background(), passages)
	if len(summaries) != 1 {
		t.Fatalf("summaries = %d, want 1", len(summaries))
	}
	if summaries[0].Summary != "A tidy summary." {
		t.Errorf("summary = %q", summaries[0].Summary)
	}
	if len(summaries[0].Citations) != 1 || !strings.HasPrefix(summaries[0].Citations[0], "wiki:") {
		t.Errorf("citations = %v", summaries[0].Citations)
	}
}

func TestClusterer_ProtectedClusterVerbatim(t *testing.T) {
	completer := &stubCompleter{response: "should not be used"}
	c := NewClusterer(completer)

	passages := []core.RetrievalCandidate{
		{ID: "m1", Source: core.SourceMemory, Author: "alice", Text: "alice said the exact words", Similarity: 0.9, WeightedScore: 0.9},
	}

	summaries := c.BuildSummaries(context.Background(), passages)
	if summaries[0].Summary != "alice said the exact words" {
		t.Errorf("protected summary = %q, want verbatim", summaries[0].Summary)
	}
	if !summaries[0].Protected {
		t.Error("cluster should be marked protected")
	}
	if completer.calls != 0 {
		t.Errorf("completer called %d times for protected cluster", completer.calls)
	}
}

func TestClusterer_SummarizeFallbackOnError(t *testing.T) {
	completer := &stubCompleter{err: errors.New("llm down")}
	c := NewClusterer(completer)

	passages := []core.RetrievalCandidate{
		cand("w1", "First sentence here. Second sentence there. Third is dropped.", 0.9),
	}

	summaries := c.BuildSummaries(context.Background(), passages)
	got := summaries[0].Summary
	if !strings.Contains(got, "First sentence here.") || strings.Contains(got, "Third is dropped") {
		t.Errorf("fallback summary = %q, want first sentences only", got)
	}
}

func TestCitation(t *testing.T) {
	tests := []struct {
		name string
		cand core.RetrievalCandidate
		want string
	}{
		{
			name: "wiki_short_id",
			cand: core.RetrievalCandidate{ID: "abcdef1234567890", Source: core.SourceWiki},
			want: "wiki:abcdef12",
		},
		{
			name: "card",
			cand: core.RetrievalCandidate{ID: "kek1", Source: core.SourceCardData},
			want: "card:kek1",
		},
		{
			name: "chatlog_with_author",
			cand: core.RetrievalCandidate{ID: "c1", Source: core.SourceChatlog, Author: "alice", CreatedAt: mustTime(t, "2024-03-05")},
			want: "chat:c1 2024-03-05 @alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Citation(tt.cand); got != tt.want {
				t.Errorf("Citation = %q, want %q", got, tt.want)
			}
		})
	}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return parsed
}
