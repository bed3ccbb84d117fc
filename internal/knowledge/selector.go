package knowledge

import (
	"github.com/sandevgo/pepebot/internal/core"
)

// SelectTopK takes the n best candidates by weighted score. Factual
// queries want the single best answer, so no diversity is enforced.
func SelectTopK(candidates []core.RetrievalCandidate, n int) []core.RetrievalCandidate {
	if n > len(candidates) {
		n = len(candidates)
	}
	if n <= 0 {
		return nil
	}
	out := make([]core.RetrievalCandidate, n)
	copy(out, candidates[:n])
	return out
}

// SelectMMR picks up to n candidates by Maximal Marginal Relevance:
// each step takes the candidate maximizing
//
//	lambda*relevance - (1-lambda)*maxSimilarityToSelected
//
// trading relevance against redundancy for varied storytelling. When every
// candidate has the same relevance there is nothing to trade, so selection
// degrades to plain top-K order.
func SelectMMR(candidates []core.RetrievalCandidate, n int, lambda float64) []core.RetrievalCandidate {
	if n > len(candidates) {
		n = len(candidates)
	}
	if n <= 0 {
		return nil
	}
	if relevanceVarianceZero(candidates) {
		return SelectTopK(candidates, n)
	}

	words := make([]map[string]struct{}, len(candidates))
	for i, c := range candidates {
		words[i] = wordSet(c.Text)
	}

	selected := make([]core.RetrievalCandidate, 0, n)
	selectedIdx := make([]int, 0, n)
	used := make([]bool, len(candidates))

	for len(selected) < n {
		best := -1
		bestScore := 0.0
		for i := range candidates {
			if used[i] {
				continue
			}
			maxSim := 0.0
			for _, j := range selectedIdx {
				if sim := jaccard(words[i], words[j]); sim > maxSim {
					maxSim = sim
				}
			}
			score := lambda*candidates[i].WeightedScore - (1-lambda)*maxSim
			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}
		if best == -1 {
			break
		}
		used[best] = true
		selectedIdx = append(selectedIdx, best)
		selected = append(selected, candidates[best])
	}
	return selected
}

func relevanceVarianceZero(candidates []core.RetrievalCandidate) bool {
	for i := 1; i < len(candidates); i++ {
		if candidates[i].WeightedScore != candidates[0].WeightedScore {
			return false
		}
	}
	return true
}
