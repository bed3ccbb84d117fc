package core

import "time"

const (
	PepeName          = "PepeBot"
	PepeUserAgent     = "PepeBot-Agent/0.1"
	PepeRepositoryURL = "https://github.com/sandevgo/pepebot"
	PepeVersion       = "0.1.0"
)

// Intent is the classified purpose of an inbound message.
type Intent string

const (
	IntentLore       Intent = "LORE"
	IntentFacts      Intent = "FACTS"
	IntentChat       Intent = "CHAT"
	IntentNoResponse Intent = "NORESPONSE"
	IntentCmdRoute   Intent = "CMDROUTE"
)

// SourceType is the closed set of evidence origins. Weight tables and
// filters key on it so a new source cannot slip through unweighted.
type SourceType string

const (
	SourceMemory   SourceType = "memory"
	SourceWiki     SourceType = "wiki"
	SourceCardData SourceType = "card_data"
	SourceChatlog  SourceType = "chatlog"
	SourceUnknown  SourceType = "unknown"
)

func SourceTypes() []SourceType {
	return []SourceType{SourceMemory, SourceWiki, SourceCardData, SourceChatlog, SourceUnknown}
}

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// ConversationTurn is one entry in a room's rolling transcript.
type ConversationTurn struct {
	Role      string
	Author    string
	Text      string
	CreatedAt time.Time
}

// RetrievalCandidate is one scored passage from a single source. Produced
// fresh per request, never persisted.
type RetrievalCandidate struct {
	ID            string
	Source        SourceType
	Text          string
	Similarity    float64
	WeightedScore float64
	Entity        string
	Author        string
	CreatedAt     time.Time
}

// UserContributed reports whether the passage came from a community member
// rather than the system corpus. Such evidence is exempt from freshness
// suppression and is never reworded by the summarizer.
func (c RetrievalCandidate) UserContributed() bool {
	return c.Author != "" && (c.Source == SourceMemory || c.Source == SourceChatlog)
}

// SourceStats aggregates one source's contribution to a retrieval pass.
type SourceStats struct {
	Count    int
	Weight   float64
	TopScore float64
}

// RetrievalMetrics describes a whole retrieval pass, used by fast-path
// detection and carried on plans for observability.
type RetrievalMetrics struct {
	Query     string
	Intent    Intent
	Total     int
	PerSource map[SourceType]SourceStats
}

// ClusterSummary is a group of selected passages collapsed into one
// summarized block with citation strings.
type ClusterSummary struct {
	ID         int
	PassageIDs []string
	Summary    string
	Citations  []string
	Protected  bool
}
