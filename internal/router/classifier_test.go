package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandevgo/pepebot/internal/core"
)

type funcCompleter struct {
	fn func(req core.CompletionRequest) (string, error)
}

func (c *funcCompleter) Complete(_ context.Context, req core.CompletionRequest) (string, error) {
	return c.fn(req)
}

func fixedCompleter(out string, err error) *funcCompleter {
	return &funcCompleter{fn: func(core.CompletionRequest) (string, error) { return out, err }}
}

func TestClassifyParsesStrictJSON(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   core.Intent
	}{
		{"plain object", `{"intent": "FACTS", "command": ""}`, core.IntentFacts},
		{"wrapped in prose", "Sure! Here you go: {\"intent\": \"LORE\", \"command\": \"\"} Hope that helps.", core.IntentLore},
		{"chat verdict", `{"intent": "CHAT"}`, core.IntentChat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(fixedCompleter(tt.output, nil), 0)
			got := c.Classify(context.Background(), "alice (current): hi")
			if got.Intent != tt.want {
				t.Fatalf("intent = %q, want %q", got.Intent, tt.want)
			}
		})
	}
}

func TestClassifyFailsClosed(t *testing.T) {
	tests := []struct {
		name   string
		output string
		err    error
	}{
		{"provider error", "", errors.New("upstream 502")},
		{"no JSON at all", "FACTS, definitely", nil},
		{"unknown intent", `{"intent": "BANTER"}`, nil},
		{"truncated object", `{"intent": "FA`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(fixedCompleter(tt.output, tt.err), 0)
			got := c.Classify(context.Background(), "alice (current): hm")
			if got.Intent != core.IntentNoResponse {
				t.Fatalf("intent = %q, want NORESPONSE", got.Intent)
			}
		})
	}
}

func TestClassifyDemotesCmdRouteWithoutCommand(t *testing.T) {
	c := NewClassifier(fixedCompleter(`{"intent": "CMDROUTE", "command": "   "}`, nil), 0)
	got := c.Classify(context.Background(), "alice (current): do the thing")
	if got.Intent != core.IntentNoResponse {
		t.Fatalf("intent = %q, want NORESPONSE", got.Intent)
	}
}

func TestDisambiguateDefaultsToBoth(t *testing.T) {
	tests := []struct {
		name   string
		output string
		err    error
		want   string
	}{
		{"clear bot chat", `{"verdict": "BOT_CHAT"}`, nil, VerdictBotChat},
		{"entity reading", `{"verdict": "ENTITY_INTENT"}`, nil, VerdictEntityIntent},
		{"provider error", "", errors.New("timeout"), VerdictBoth},
		{"garbage verdict", `{"verdict": "MAYBE"}`, nil, VerdictBoth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(fixedCompleter(tt.output, tt.err), 0)
			if got := c.Disambiguate(context.Background(), "bob (current): pepebot wen moon", "PepeBot"); got != tt.want {
				t.Fatalf("verdict = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeCommand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/help", "/help"},
		{"help", "/help"},
		{"  /CARD freedomkek  ", "/card freedomkek"},
		{"/", ""},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := NormalizeCommand(tt.in); got != tt.want {
			t.Errorf("NormalizeCommand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildTranscriptTrimsOldestFirst(t *testing.T) {
	turns := []core.ConversationTurn{
		{Role: core.RoleUser, Author: "alice", Text: "first message about cards"},
		{Role: core.RoleBot, Text: "a bot reply"},
		{Role: core.RoleBot, Author: "PEPE", Text: "a named bot reply"},
		{Role: core.RoleUser, Author: "bob", Text: "second message"},
	}

	full := BuildTranscript(turns, "and now?", "carol", 0)
	for _, want := range []string{"alice: first message", core.PepeName + ": a bot reply", "PEPE: a named bot reply", "carol (current): and now?"} {
		if !strings.Contains(full, want) {
			t.Fatalf("transcript missing %q:\n%s", want, full)
		}
	}

	tight := BuildTranscript(turns, "and now?", "carol", 8)
	if strings.Contains(tight, "alice") {
		t.Fatalf("oldest turn should be trimmed first:\n%s", tight)
	}
	if !strings.Contains(tight, "carol (current): and now?") {
		t.Fatalf("current message must survive trimming:\n%s", tight)
	}
}
