package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/pkg/log"
)

// scanLimit caps how much chat history one search scores. The archive
// grows without bound; scoring stays on the recent slice of it.
const scanLimit = 500

// TurnsRepo persists the room transcript and doubles as the chat-log
// search source. Scoring is plain keyword overlap; the embedded corpora
// get real embeddings, the local archive does not need them.
type TurnsRepo struct {
	db *sql.DB
}

func NewTurnsRepo(db *sql.DB) *TurnsRepo {
	return &TurnsRepo{db: db}
}

func (r *TurnsRepo) AppendTurn(ctx context.Context, roomID string, turn core.ConversationTurn) error {
	query := `INSERT INTO turns (room_id, role, author, content, created_at) VALUES (?, ?, ?, ?, ?)`
	createdAt := turn.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if _, err := r.db.ExecContext(ctx, query, roomID, turn.Role, turn.Author, turn.Text, createdAt.UTC()); err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	return nil
}

// Search scores the most recent archived user turns by keyword overlap
// with the query and returns the best matches as search hits.
func (r *TurnsRepo) Search(ctx context.Context, query string, _ core.SourceType, topK int, threshold float64) ([]core.SearchHit, error) {
	terms := queryTerms(query)
	if len(terms) == 0 || topK <= 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, author, content, created_at FROM turns WHERE role = ? ORDER BY id DESC LIMIT ?`,
		core.RoleUser, scanLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var hits []core.SearchHit
	for rows.Next() {
		var id int64
		var author, content string
		var createdAt time.Time
		if err := rows.Scan(&id, &author, &content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}

		score := overlapScore(content, terms)
		if score < threshold || score == 0 {
			continue
		}

		hits = append(hits, core.SearchHit{
			ID:         "t" + strconv.FormatInt(id, 10),
			Text:       content,
			Similarity: score,
			Metadata: map[string]string{
				"author":    author,
				"timestamp": createdAt.UTC().Format(time.RFC3339),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}

	log.FromCtx(ctx).Debug().Int("hits", len(hits)).Msg("chatlog search complete")
	return hits, nil
}

func queryTerms(query string) []string {
	var terms []string
	for _, f := range strings.Fields(strings.ToLower(query)) {
		f = strings.Trim(f, ".,!?\"'")
		if len(f) < 3 {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

// overlapScore is the fraction of query terms present in the text.
func overlapScore(text string, terms []string) float64 {
	lower := strings.ToLower(text)
	matched := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}
