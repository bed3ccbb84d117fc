package core

import (
	"context"
)

// CompletionRequest is a single prompt-in, text-out LLM call.
type CompletionRequest struct {
	Prompt      string
	System      string
	MaxTokens   int
	Temperature float64
}

// Completer is the black-box text completion collaborator.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// SearchHit is one ranked snippet from the search collaborator.
type SearchHit struct {
	ID         string
	Text       string
	Similarity float64
	Metadata   map[string]string
}

// Searcher is the black-box retrieval collaborator, callable independently
// per source. An empty result is a valid answer.
type Searcher interface {
	Search(ctx context.Context, query string, source SourceType, topK int, threshold float64) ([]SearchHit, error)
}

// TurnArchive is an optional durable sink for conversation turns. Writes
// are fire-and-forget from the history store's point of view.
type TurnArchive interface {
	AppendTurn(ctx context.Context, roomID string, turn ConversationTurn) error
}
