package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/pkg/log"
)

const chatMaxTokens = 120

// hostility cues that demote banter to a neutral emoji instead of
// letting the bot argue.
var hostileCues = []string{
	"stfu", "shut up", "scam", "rug", "trash bot", "garbage bot",
	"fuck off", "nobody asked", "go away",
}

// ChatResponder produces the short persona-voiced CHAT reply under a
// strict tone contract: mirror the user's energy, never end with a
// question, de-escalate hostility.
type ChatResponder struct {
	completer core.Completer
	persona   string
	neutral   string
}

func NewChatResponder(completer core.Completer, persona string) *ChatResponder {
	return &ChatResponder{completer: completer, persona: persona, neutral: "🐸"}
}

// Reply returns the chat text and whether generation succeeded. A
// hostile message short-circuits to the neutral emoji.
func (r *ChatResponder) Reply(ctx context.Context, transcript, message string) (string, bool) {
	if isHostile(message) {
		return r.neutral, true
	}

	system := fmt.Sprintf(
		"You are %s, a laid-back community card bot. Reply in one or two short sentences. Mirror the user's energy. Never end with a question. If the user is rude, reply with a single neutral emoji.",
		r.persona,
	)
	out, err := r.completer.Complete(ctx, core.CompletionRequest{
		Prompt:    transcript,
		System:    system,
		MaxTokens: chatMaxTokens,
	})
	if err != nil || strings.TrimSpace(out) == "" {
		log.FromCtx(ctx).Warn().Err(err).Msg("chat reply generation failed")
		return "", false
	}

	return enforceNoTrailingQuestion(strings.TrimSpace(out)), true
}

func isHostile(message string) bool {
	lower := strings.ToLower(message)
	for _, cue := range hostileCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

// enforceNoTrailingQuestion backs the tone contract with a deterministic
// check: drop a trailing question sentence, or soften the mark when the
// question is all there is.
func enforceNoTrailingQuestion(text string) string {
	if !strings.HasSuffix(text, "?") {
		return text
	}
	if idx := strings.LastIndexAny(text[:len(text)-1], ".!"); idx > 0 {
		return strings.TrimSpace(text[:idx+1])
	}
	return strings.TrimSuffix(text, "?") + "."
}
