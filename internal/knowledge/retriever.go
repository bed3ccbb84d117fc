package knowledge

import (
	"context"
	"sort"
	"time"

	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/pkg/log"
)

// Retriever fans a query out to the search collaborator per source type,
// weights the results by intent, and reports aggregate metrics. A failing
// source is logged and treated as empty; retrieval never returns an error.
type Retriever struct {
	searcher core.Searcher
	weights  WeightTable
}

func NewRetriever(searcher core.Searcher, weights WeightTable) *Retriever {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Retriever{searcher: searcher, weights: weights}
}

func (r *Retriever) Retrieve(ctx context.Context, query string, intent core.Intent) ([]core.RetrievalCandidate, core.RetrievalMetrics) {
	logger := log.FromCtx(ctx)

	metrics := core.RetrievalMetrics{
		Query:     query,
		Intent:    intent,
		PerSource: make(map[core.SourceType]core.SourceStats),
	}

	row, ok := r.weights[intent]
	if !ok || r.searcher == nil {
		return nil, metrics
	}

	var candidates []core.RetrievalCandidate
	for _, source := range core.SourceTypes() {
		params, queried := row[source]
		if !queried {
			continue
		}

		hits, err := r.searcher.Search(ctx, query, source, params.TopK, params.Threshold)
		if err != nil {
			logger.Warn().Err(err).Str("source", string(source)).Msg("source search failed, continuing without it")
			continue
		}

		stats := core.SourceStats{Weight: params.Weight}
		for _, hit := range hits {
			cand := candidateFromHit(hit, source)
			cand.WeightedScore = cand.Similarity * params.Weight
			candidates = append(candidates, cand)

			stats.Count++
			if cand.WeightedScore > stats.TopScore {
				stats.TopScore = cand.WeightedScore
			}
		}
		metrics.PerSource[source] = stats
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].WeightedScore > candidates[j].WeightedScore
	})
	metrics.Total = len(candidates)

	logger.Debug().
		Str("intent", string(intent)).
		Int("candidates", metrics.Total).
		Msg("retrieval pass complete")

	return candidates, metrics
}

func candidateFromHit(hit core.SearchHit, source core.SourceType) core.RetrievalCandidate {
	cand := core.RetrievalCandidate{
		ID:         hit.ID,
		Source:     source,
		Text:       hit.Text,
		Similarity: hit.Similarity,
	}
	if hit.Metadata != nil {
		cand.Entity = hit.Metadata["entity"]
		cand.Author = hit.Metadata["author"]
		if ts := hit.Metadata["timestamp"]; ts != "" {
			if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
				cand.CreatedAt = parsed
			}
		}
	}
	return cand
}
