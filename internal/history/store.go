package history

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/pkg/log"
)

const defaultCeiling = 100

// Store keeps a bounded, per-room FIFO buffer of conversation turns. It is
// advisory context for the router, not a durable ledger; the optional
// archive receives a best-effort copy of every turn.
type Store struct {
	mu      sync.RWMutex
	rooms   map[string][]core.ConversationTurn
	ceiling int
	persona string
	archive core.TurnArchive
}

type Option func(*Store)

func WithCeiling(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.ceiling = n
		}
	}
}

// WithPersona sets the author stamped on bot turns, so transcripts carry
// the same name the rest of the system matches on.
func WithPersona(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.persona = name
		}
	}
}

func WithArchive(a core.TurnArchive) Option {
	return func(s *Store) { s.archive = a }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		rooms:   make(map[string][]core.ConversationTurn),
		ceiling: defaultCeiling,
		persona: core.PepeName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) RecordUserTurn(ctx context.Context, roomID, text, author string) {
	s.append(ctx, roomID, core.ConversationTurn{
		Role:      core.RoleUser,
		Author:    author,
		Text:      text,
		CreatedAt: time.Now(),
	})
}

func (s *Store) RecordBotTurn(ctx context.Context, roomID, text string) {
	s.append(ctx, roomID, core.ConversationTurn{
		Role:      core.RoleBot,
		Author:    s.persona,
		Text:      text,
		CreatedAt: time.Now(),
	})
}

// RecentTurns returns up to n most recent turns, oldest first. An unknown
// room yields an empty slice.
func (s *Store) RecentTurns(roomID string, n int) []core.ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.rooms[roomID]
	if n > len(turns) {
		n = len(turns)
	}
	if n <= 0 {
		return nil
	}

	out := make([]core.ConversationTurn, n)
	copy(out, turns[len(turns)-n:])
	return out
}

func (s *Store) append(ctx context.Context, roomID string, turn core.ConversationTurn) {
	s.mu.Lock()
	turns := append(s.rooms[roomID], turn)
	if len(turns) > s.ceiling {
		turns = turns[len(turns)-s.ceiling:]
	}
	s.rooms[roomID] = turns
	s.mu.Unlock()

	if s.archive != nil {
		go func() {
			if err := s.archive.AppendTurn(context.WithoutCancel(ctx), roomID, turn); err != nil {
				log.FromCtx(ctx).Warn().Err(err).Str("room", roomID).Msg("turn archive write failed")
			}
		}()
	}
}
