package knowledge

import "github.com/sandevgo/pepebot/internal/core"

// SourceParams drives one source's query within a retrieval pass.
type SourceParams struct {
	Weight    float64
	TopK      int
	Threshold float64
}

// WeightTable maps intent to per-source retrieval parameters. A source
// absent from an intent's row is not queried for that intent.
type WeightTable map[core.Intent]map[core.SourceType]SourceParams

// DefaultWeights biases FACTS toward curated sources and LORE toward the
// community's own words.
func DefaultWeights() WeightTable {
	return WeightTable{
		core.IntentFacts: {
			core.SourceWiki:     {Weight: 1.2, TopK: 8, Threshold: 0.25},
			core.SourceCardData: {Weight: 1.1, TopK: 8, Threshold: 0.25},
			core.SourceMemory:   {Weight: 1.0, TopK: 6, Threshold: 0.30},
			core.SourceChatlog:  {Weight: 0.8, TopK: 6, Threshold: 0.35},
		},
		core.IntentLore: {
			core.SourceChatlog:  {Weight: 1.25, TopK: 10, Threshold: 0.25},
			core.SourceMemory:   {Weight: 1.1, TopK: 8, Threshold: 0.25},
			core.SourceWiki:     {Weight: 0.9, TopK: 6, Threshold: 0.30},
			core.SourceCardData: {Weight: 0.7, TopK: 4, Threshold: 0.35},
		},
	}
}
