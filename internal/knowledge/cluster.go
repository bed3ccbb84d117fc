package knowledge

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/pkg/log"
)

const (
	clusterTarget       = 3
	summaryMaxTokens    = 180
	summaryTemperature  = 0.2
	fallbackSentences   = 2
	summarySystemPrompt = "You condense community card trivia. Output only the summary text."
)

// Clusterer groups selected passages into 2-3 thematic clusters and
// summarizes each. Clusters holding community-contributed passages are
// kept verbatim so nobody's words get reworded.
type Clusterer struct {
	completer core.Completer
	target    int
}

func NewClusterer(completer core.Completer) *Clusterer {
	return &Clusterer{completer: completer, target: clusterTarget}
}

// BuildSummaries partitions passages and summarizes every cluster. Each
// input passage id lands in exactly one output cluster.
func (c *Clusterer) BuildSummaries(ctx context.Context, passages []core.RetrievalCandidate) []core.ClusterSummary {
	clusters := c.Cluster(passages)
	return c.summarizeAll(ctx, clusters)
}

// Cluster greedily merges the pair with the highest average cross-cluster
// Jaccard word overlap until the count falls to the target. At or below
// the target every passage stays a singleton.
func (c *Clusterer) Cluster(passages []core.RetrievalCandidate) [][]core.RetrievalCandidate {
	if len(passages) == 0 {
		return nil
	}

	clusters := make([][]core.RetrievalCandidate, len(passages))
	words := make([][]map[string]struct{}, len(passages))
	for i, p := range passages {
		clusters[i] = []core.RetrievalCandidate{p}
		words[i] = []map[string]struct{}{wordSet(p.Text)}
	}

	for len(clusters) > c.target {
		bestA, bestB := 0, 1
		bestSim := -1.0
		for a := 0; a < len(clusters); a++ {
			for b := a + 1; b < len(clusters); b++ {
				if sim := avgLinkSim(words[a], words[b]); sim > bestSim {
					bestSim = sim
					bestA, bestB = a, b
				}
			}
		}

		clusters[bestA] = append(clusters[bestA], clusters[bestB]...)
		words[bestA] = append(words[bestA], words[bestB]...)
		clusters = append(clusters[:bestB], clusters[bestB+1:]...)
		words = append(words[:bestB], words[bestB+1:]...)
	}
	return clusters
}

// avgLinkSim averages pairwise Jaccard similarity across all
// cross-cluster passage pairs.
func avgLinkSim(a, b []map[string]struct{}) float64 {
	total := 0.0
	for _, wa := range a {
		for _, wb := range b {
			total += jaccard(wa, wb)
		}
	}
	return total / float64(len(a)*len(b))
}

// summarizeAll fans cluster summarization out concurrently; the clusters
// are independent, so there is nothing to serialize.
func (c *Clusterer) summarizeAll(ctx context.Context, clusters [][]core.RetrievalCandidate) []core.ClusterSummary {
	summaries := make([]core.ClusterSummary, len(clusters))

	var wg sync.WaitGroup
	for i, cluster := range clusters {
		wg.Add(1)
		go func(i int, cluster []core.RetrievalCandidate) {
			defer wg.Done()
			summaries[i] = c.summarize(ctx, i, cluster)
		}(i, cluster)
	}
	wg.Wait()

	return summaries
}

func (c *Clusterer) summarize(ctx context.Context, id int, cluster []core.RetrievalCandidate) core.ClusterSummary {
	summary := core.ClusterSummary{ID: id}
	var texts []string
	for _, p := range cluster {
		summary.PassageIDs = append(summary.PassageIDs, p.ID)
		summary.Citations = append(summary.Citations, Citation(p))
		texts = append(texts, p.Text)
		if p.UserContributed() {
			summary.Protected = true
		}
	}

	if summary.Protected || c.completer == nil {
		summary.Summary = strings.Join(texts, "\n")
		return summary
	}

	prompt := fmt.Sprintf(
		"Summarize the following passages into one short paragraph. Keep names and numbers exact.\n\n%s",
		strings.Join(texts, "\n---\n"),
	)
	out, err := c.completer.Complete(ctx, core.CompletionRequest{
		Prompt:      prompt,
		System:      summarySystemPrompt,
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
	})
	if err != nil || strings.TrimSpace(out) == "" {
		log.FromCtx(ctx).Warn().Err(err).Int("cluster", id).Msg("cluster summarization failed, using first sentences")
		summary.Summary = firstSentences(texts, fallbackSentences)
		return summary
	}

	summary.Summary = strings.TrimSpace(out)
	return summary
}

// firstSentences deterministically takes the leading sentences of each
// passage as a degraded summary.
func firstSentences(texts []string, n int) string {
	var parts []string
	for _, t := range texts {
		sentences := strings.SplitAfter(t, ". ")
		if len(sentences) > n {
			sentences = sentences[:n]
		}
		parts = append(parts, strings.TrimSpace(strings.Join(sentences, "")))
	}
	return strings.Join(parts, " ")
}

// Citation renders a compact citation string: source prefix plus short id,
// with date and author for chat-log passages.
func Citation(p core.RetrievalCandidate) string {
	prefix := map[core.SourceType]string{
		core.SourceMemory:   "mem",
		core.SourceWiki:     "wiki",
		core.SourceCardData: "card",
		core.SourceChatlog:  "chat",
		core.SourceUnknown:  "src",
	}[p.Source]

	id := p.ID
	if len(id) > 8 {
		id = id[:8]
	}

	cite := prefix + ":" + id
	if p.Source == core.SourceChatlog {
		if !p.CreatedAt.IsZero() {
			cite += " " + p.CreatedAt.Format("2006-01-02")
		}
		if p.Author != "" {
			cite += " @" + p.Author
		}
	}
	return cite
}
