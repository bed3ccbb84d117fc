package knowledge

import (
	"context"
	"testing"
	"time"

	"github.com/sandevgo/pepebot/internal/core"
)

func TestFreshness_SuppressesUsedIDs(t *testing.T) {
	f := NewFreshness(50, 30*time.Minute, 0)
	ctx := context.Background()

	candidates := []core.RetrievalCandidate{
		cand("a", "alpha", 0.9),
		cand("b", "beta", 0.8),
	}

	got := f.Filter(ctx, "room-1", candidates)
	if len(got) != 2 {
		t.Fatalf("fresh room filtered to %d, want 2", len(got))
	}

	f.MarkUsed("room-1", []string{"a"})

	got = f.Filter(ctx, "room-1", candidates)
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("after MarkUsed filter = %v, want only b", ids(got))
	}

	// other rooms are unaffected
	got = f.Filter(ctx, "room-2", candidates)
	if len(got) != 2 {
		t.Errorf("room-2 filtered to %d, want 2", len(got))
	}
}

func TestFreshness_WindowExpiry(t *testing.T) {
	f := NewFreshness(50, time.Millisecond, 0)
	ctx := context.Background()

	candidates := []core.RetrievalCandidate{cand("a", "alpha", 0.9)}
	f.MarkUsed("room-1", []string{"a"})

	time.Sleep(5 * time.Millisecond)

	got := f.Filter(ctx, "room-1", candidates)
	if len(got) != 1 {
		t.Errorf("expired id still suppressed")
	}
}

func TestFreshness_UserContributedExempt(t *testing.T) {
	f := NewFreshness(50, 30*time.Minute, 0)
	ctx := context.Background()

	userCand := core.RetrievalCandidate{ID: "u", Source: core.SourceMemory, Author: "alice", Text: "alice lore", WeightedScore: 0.9}
	candidates := []core.RetrievalCandidate{userCand, cand("a", "alpha", 0.8)}

	f.MarkUsed("room-1", []string{"u", "a"})

	got := f.Filter(ctx, "room-1", candidates)
	if len(got) != 1 || got[0].ID != "u" {
		t.Errorf("filter = %v, want user-contributed u kept", ids(got))
	}
}

func TestFreshness_MinHitsBypass(t *testing.T) {
	f := NewFreshness(50, 30*time.Minute, 2)
	ctx := context.Background()

	candidates := []core.RetrievalCandidate{
		cand("a", "alpha", 0.9),
		cand("b", "beta", 0.8),
	}
	f.MarkUsed("room-1", []string{"a"})

	// filtering would leave one hit, below the floor of two
	got := f.Filter(ctx, "room-1", candidates)
	if len(got) != 2 {
		t.Errorf("filter below floor returned %d, want bypass with 2", len(got))
	}
}

func TestFreshness_MarkUsedIdempotent(t *testing.T) {
	f := NewFreshness(50, 30*time.Minute, 0)
	ctx := context.Background()

	f.MarkUsed("room-1", []string{"a"})
	f.MarkUsed("room-1", []string{"a"})

	got := f.Filter(ctx, "room-1", []core.RetrievalCandidate{cand("a", "alpha", 0.9), cand("b", "beta", 0.8)})
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("filter = %v, want only b", ids(got))
	}
}
