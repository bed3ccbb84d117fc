package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/pkg/log"
)

// FactsSentinel is what the FACTS prompt instructs the model to return
// when the sources don't answer the question. It is never published
// verbatim; the composer converts it into a clarification reply.
const FactsSentinel = "NO_ANSWER_IN_SOURCES"

const (
	factsNothingFound = "Couldn't find anything on that in my sources. If it's a card, try the exact asset name."
	factsClarify      = "My sources don't quite answer that one. Can you rephrase, or name the card directly?"
	loreNothingFound  = "Can't say I've heard that tale around here. Got a detail to jog my memory?"
	composeMaxTokens  = 400
)

// Composer turns cluster summaries into the final narrative per mode,
// with a deterministic fallback: infrastructure failure must produce
// coherent output, never silence.
type Composer struct {
	completer core.Completer
	persona   string
}

func NewComposer(completer core.Completer, persona string) *Composer {
	return &Composer{completer: completer, persona: persona}
}

// Compose returns the story text and the citation tokens backing it.
func (c *Composer) Compose(ctx context.Context, mode core.Intent, query string, clusters []core.ClusterSummary) (string, []string) {
	sources := collectCitations(clusters)

	if len(clusters) == 0 {
		if mode == core.IntentLore {
			return loreNothingFound, nil
		}
		return factsNothingFound, nil
	}

	evidence := renderEvidence(clusters)

	var system, prompt string
	switch mode {
	case core.IntentLore:
		system = fmt.Sprintf(
			"You are %s, the community's historian. Recount what actually happened in first person, grounded only in the evidence. If the evidence has nothing on the topic, say a short version of \"haven't heard of that\".",
			c.persona,
		)
		prompt = fmt.Sprintf("Question: %s\n\nEvidence:\n%s\n\nTell the story.", query, evidence)
	default:
		system = fmt.Sprintf(
			"You answer card questions for the %s community. Be concise, use lists when they help, no narrative framing. If the sources do not answer the question, reply exactly %s.",
			c.persona, FactsSentinel,
		)
		prompt = fmt.Sprintf("Question: %s\n\nSources:\n%s", query, evidence)
	}

	out, err := c.completer.Complete(ctx, core.CompletionRequest{
		Prompt:    prompt,
		System:    system,
		MaxTokens: composeMaxTokens,
	})
	if err != nil || strings.TrimSpace(out) == "" {
		log.FromCtx(ctx).Warn().Err(err).Str("mode", string(mode)).Msg("narrative composition failed, concatenating summaries")
		return c.fallback(mode, clusters), sources
	}

	story := strings.TrimSpace(out)
	if mode != core.IntentLore && strings.Contains(story, FactsSentinel) {
		return factsClarify, sources
	}
	return story, sources
}

// fallback concatenates cluster summaries with a fixed wrapper.
func (c *Composer) fallback(mode core.Intent, clusters []core.ClusterSummary) string {
	var parts []string
	for _, cl := range clusters {
		if s := strings.TrimSpace(cl.Summary); s != "" {
			parts = append(parts, s)
		}
	}
	body := strings.Join(parts, "\n\n")
	if mode == core.IntentLore {
		return "From what I remember around here:\n\n" + body
	}
	return "Here's what my sources say:\n\n" + body
}

func renderEvidence(clusters []core.ClusterSummary) string {
	var b strings.Builder
	for i, cl := range clusters {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, cl.Summary)
		if len(cl.Citations) > 0 {
			fmt.Fprintf(&b, "(%s)\n", strings.Join(cl.Citations, ", "))
		}
	}
	return b.String()
}

func collectCitations(clusters []core.ClusterSummary) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, cl := range clusters {
		for _, cite := range cl.Citations {
			if _, dup := seen[cite]; dup {
				continue
			}
			seen[cite] = struct{}{}
			out = append(out, cite)
		}
	}
	return out
}
