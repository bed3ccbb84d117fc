package knowledge

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/pkg/log"
)

// Freshness suppresses passages the bot surfaced recently in a room, so
// repeated questions get varied evidence. User-contributed passages are
// never suppressed: the community's own words always remain eligible.
type Freshness struct {
	mu       sync.Mutex
	rooms    map[string]*lru.Cache
	capacity int
	window   time.Duration
	minHits  int
}

func NewFreshness(capacity int, window time.Duration, minHits int) *Freshness {
	if capacity <= 0 {
		capacity = 50
	}
	if window <= 0 {
		window = 30 * time.Minute
	}
	return &Freshness{
		rooms:    make(map[string]*lru.Cache),
		capacity: capacity,
		window:   window,
		minHits:  minHits,
	}
}

// Filter drops recently-surfaced candidates for the room. If filtering
// would leave fewer than the minimum-hits floor, it is bypassed entirely
// for this call.
func (f *Freshness) Filter(ctx context.Context, roomID string, candidates []core.RetrievalCandidate) []core.RetrievalCandidate {
	if len(candidates) == 0 {
		return candidates
	}

	f.mu.Lock()
	cache := f.rooms[roomID]
	f.mu.Unlock()
	if cache == nil {
		return candidates
	}

	now := time.Now()
	kept := make([]core.RetrievalCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.UserContributed() || !f.recentlyUsed(cache, c.ID, now) {
			kept = append(kept, c)
		}
	}

	if len(kept) < f.minHits {
		log.FromCtx(ctx).Debug().
			Str("room", roomID).
			Int("kept", len(kept)).
			Int("floor", f.minHits).
			Msg("freshness filter bypassed, too few hits would remain")
		return candidates
	}
	return kept
}

// MarkUsed records the given passage ids as surfaced in the room.
// Idempotent; safe to call fire-and-forget.
func (f *Freshness) MarkUsed(roomID string, ids []string) {
	if len(ids) == 0 {
		return
	}

	f.mu.Lock()
	cache := f.rooms[roomID]
	if cache == nil {
		cache, _ = lru.New(f.capacity)
		f.rooms[roomID] = cache
	}
	f.mu.Unlock()

	now := time.Now()
	for _, id := range ids {
		cache.Add(id, now)
	}
}

func (f *Freshness) recentlyUsed(cache *lru.Cache, id string, now time.Time) bool {
	v, ok := cache.Get(id)
	if !ok {
		return false
	}
	usedAt, ok := v.(time.Time)
	if !ok {
		return false
	}
	if now.Sub(usedAt) > f.window {
		cache.Remove(id)
		return false
	}
	return true
}
