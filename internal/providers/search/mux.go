package search

import (
	"context"
	"fmt"

	"github.com/sandevgo/pepebot/internal/core"
)

// Mux routes searches per source type, so the chat-log archive can live
// in local sqlite while the embedded corpora stay behind the sidecar.
type Mux struct {
	fallback core.Searcher
	routes   map[core.SourceType]core.Searcher
}

func NewMux(fallback core.Searcher) *Mux {
	return &Mux{
		fallback: fallback,
		routes:   make(map[core.SourceType]core.Searcher),
	}
}

// Route directs a source type to a dedicated searcher.
func (m *Mux) Route(source core.SourceType, s core.Searcher) {
	m.routes[source] = s
}

func (m *Mux) Search(ctx context.Context, query string, source core.SourceType, topK int, threshold float64) ([]core.SearchHit, error) {
	if s, ok := m.routes[source]; ok {
		return s.Search(ctx, query, source, topK, threshold)
	}
	if m.fallback == nil {
		return nil, fmt.Errorf("no searcher for source %s", source)
	}
	return m.fallback.Search(ctx, query, source, topK, threshold)
}
