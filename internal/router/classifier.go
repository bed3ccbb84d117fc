package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/pkg/log"
)

const (
	defaultClassifierTimeout = 5 * time.Second
	classifierMaxTokens      = 100

	classifierSystemPrompt = "You route messages for a community card bot. Output only valid JSON."

	// PersonaVerdict values for the secondary disambiguation call.
	VerdictBotChat      = "BOT_CHAT"
	VerdictEntityIntent = "ENTITY_INTENT"
	VerdictBoth         = "BOTH"
)

// Classification is the LLM's verdict for one message.
type Classification struct {
	Intent  core.Intent `json:"intent"`
	Command string      `json:"command"`
}

// Classifier asks the completion collaborator for a strict-JSON intent.
// It fails closed: any error, timeout, or unparseable output yields
// NORESPONSE, because staying quiet is always a safe move in chat.
type Classifier struct {
	completer core.Completer
	timeout   time.Duration
}

func NewClassifier(completer core.Completer, timeout time.Duration) *Classifier {
	if timeout <= 0 {
		timeout = defaultClassifierTimeout
	}
	return &Classifier{completer: completer, timeout: timeout}
}

func (c *Classifier) Classify(ctx context.Context, transcript string) Classification {
	logger := log.FromCtx(ctx)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		`Decide how the bot should react to the last message of this chat transcript.

%s

Reply with JSON only: {"intent": "LORE|FACTS|CHAT|NORESPONSE|CMDROUTE", "command": "<slash command if CMDROUTE, else empty>"}
LORE: the user wants community history or stories. FACTS: a factual question answerable from the card archive. CHAT: casual banter directed at the bot. CMDROUTE: an explicit slash command. NORESPONSE: everything else.`,
		transcript,
	)

	out, err := c.completer.Complete(ctx, core.CompletionRequest{
		Prompt:    prompt,
		System:    classifierSystemPrompt,
		MaxTokens: classifierMaxTokens,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("classification failed, staying silent")
		return Classification{Intent: core.IntentNoResponse}
	}

	cls, err := parseClassification(out)
	if err != nil {
		logger.Warn().Err(err).Str("output", out).Msg("unparseable classification, staying silent")
		return Classification{Intent: core.IntentNoResponse}
	}

	// CMDROUTE without a usable command is noise
	if cls.Intent == core.IntentCmdRoute && NormalizeCommand(cls.Command) == "" {
		logger.Debug().Str("command", cls.Command).Msg("CMDROUTE without well-formed command, demoting")
		return Classification{Intent: core.IntentNoResponse}
	}

	return cls
}

// Disambiguate resolves whether a persona-name mention addresses the bot,
// the catalog entity of the same name, or both. Failure counts as BOTH:
// the entity reading must win unless the model is sure it's pure banter.
func (c *Classifier) Disambiguate(ctx context.Context, transcript, personaName string) string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		`In this chat, "%s" is both the bot's name and a card in the catalog.

%s

Is the last message talking TO the bot, ABOUT the card, or both?
Reply with JSON only: {"verdict": "BOT_CHAT|ENTITY_INTENT|BOTH"}`,
		personaName, transcript,
	)

	out, err := c.completer.Complete(ctx, core.CompletionRequest{
		Prompt:    prompt,
		System:    classifierSystemPrompt,
		MaxTokens: 30,
	})
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("persona disambiguation failed, keeping entity reading")
		return VerdictBoth
	}

	var v struct {
		Verdict string `json:"verdict"`
	}
	span := extractJSONObject(out)
	if span == "" || json.Unmarshal([]byte(span), &v) != nil {
		return VerdictBoth
	}

	switch v.Verdict {
	case VerdictBotChat, VerdictEntityIntent, VerdictBoth:
		return v.Verdict
	default:
		return VerdictBoth
	}
}

func parseClassification(content string) (Classification, error) {
	span := extractJSONObject(content)
	if span == "" {
		return Classification{}, fmt.Errorf("no JSON object found in response")
	}

	var cls Classification
	if err := json.Unmarshal([]byte(span), &cls); err != nil {
		return Classification{}, fmt.Errorf("unmarshal classification: %w", err)
	}

	switch cls.Intent {
	case core.IntentLore, core.IntentFacts, core.IntentChat, core.IntentNoResponse, core.IntentCmdRoute:
		return cls, nil
	default:
		return Classification{}, fmt.Errorf("unknown intent %q", cls.Intent)
	}
}

// extractJSONObject returns the first {...} span of content. LLMs wrap
// JSON in prose often enough that strict decoding alone is not viable.
func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(content[start:], "}")
	if end == -1 {
		return ""
	}
	return content[start : start+end+1]
}

// NormalizeCommand reduces a command string to a leading-slash token, or
// "" when no usable command remains.
func NormalizeCommand(cmd string) string {
	fields := strings.Fields(strings.TrimSpace(cmd))
	if len(fields) == 0 {
		return ""
	}
	head := strings.TrimPrefix(fields[0], "/")
	if head == "" {
		return ""
	}
	out := "/" + strings.ToLower(head)
	if len(fields) > 1 {
		out += " " + strings.Join(fields[1:], " ")
	}
	return out
}
