package router

import (
	"context"
	"strings"

	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/internal/entity"
	"github.com/sandevgo/pepebot/pkg/log"
)

// requestState is the mutable routing state for one inbound message.
type requestState struct {
	roomID     string
	author     string
	raw        string // original message text, never rewritten
	query      string // retrieval query, may have the persona token stripped
	transcript string
	intent     core.Intent
	command    string
	reason     string
	discovery  bool
}

// overrideRule is one entry of the deterministic pre-retrieval chain. The
// rules form an ordered predicate→action list: the first rule that
// applies decides, later applicable rules are logged as conflicts rather
// than silently resolved, since the interactions between these
// heuristics are still evolving.
type overrideRule struct {
	name    string
	applies func(ctx context.Context, e *Engine, st *requestState) bool
	apply   func(ctx context.Context, e *Engine, st *requestState)
}

func preRetrievalRules() []overrideRule {
	return []overrideRule{
		{
			name: "entity_match",
			applies: func(ctx context.Context, e *Engine, st *requestState) bool {
				return e.entities != nil && len(e.entities.Match(st.raw)) > 0
			},
			apply: func(ctx context.Context, e *Engine, st *requestState) {
				matches := e.entities.Match(st.raw)

				// The persona-name case is a refinement of this rule, not
				// an independent one: a mention of the bot's own name only
				// counts as an entity when it isn't pure banter.
				if containsFold(matches, e.persona) {
					verdict := e.classifier.Disambiguate(ctx, st.transcript, e.persona)
					if verdict == VerdictBotChat && len(matches) == 1 {
						st.query = stripToken(st.query, e.persona)
						st.reason = core.ReasonPersonaChat
						return
					}
				}

				st.intent = core.IntentFacts
				st.reason = core.ReasonEntityOverride
			},
		},
		{
			name: "descriptor_discovery",
			applies: func(ctx context.Context, e *Engine, st *requestState) bool {
				return st.intent == core.IntentNoResponse && e.descriptor != nil && e.descriptor.Matches(st.raw)
			},
			apply: func(ctx context.Context, e *Engine, st *requestState) {
				st.intent = core.IntentFacts
				st.reason = core.ReasonDescriptorOverride
				st.discovery = true
			},
		},
	}
}

// resolveOverrides runs the pre-retrieval chain in order.
func (e *Engine) resolveOverrides(ctx context.Context, st *requestState) {
	logger := log.FromCtx(ctx)

	fired := ""
	for _, rule := range e.rules {
		if !rule.applies(ctx, e, st) {
			continue
		}
		if fired != "" {
			logger.Warn().
				Str("fired", fired).
				Str("also_applicable", rule.name).
				Str("room", st.roomID).
				Msg("rule_conflict: keeping earlier override")
			continue
		}
		rule.apply(ctx, e, st)
		fired = rule.name
		logger.Debug().Str("rule", rule.name).Str("intent", string(st.intent)).Msg("override fired")
	}

	// Discovery phrasing also matters when the classifier already chose
	// an answering intent; it selects the recommendation path later.
	if !st.discovery && e.descriptor != nil && st.intent == core.IntentFacts && e.descriptor.Matches(st.raw) {
		st.discovery = true
	}
}

// applyDominanceOverride is the post-retrieval rule: when the dominant
// candidate is entity-typed and the user explicitly named that entity,
// the message deserves FACTS no matter what the classifier said. It only
// ever widens toward FACTS.
func (e *Engine) applyDominanceOverride(ctx context.Context, st *requestState, candidates []core.RetrievalCandidate) {
	if st.intent == core.IntentFacts || len(candidates) == 0 {
		return
	}
	top := candidates[0]
	if top.Entity == "" || !entity.Mentions(st.raw, top.Entity) {
		return
	}
	st.intent = core.IntentFacts
	st.reason = core.ReasonDominantEntity
	log.FromCtx(ctx).Debug().Str("entity", top.Entity).Msg("dominant entity override fired")
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// stripToken removes whole-token occurrences of tok from text, keeping
// the rest of the phrasing intact.
func stripToken(text, tok string) string {
	fields := strings.Fields(text)
	out := fields[:0]
	for _, f := range fields {
		if strings.EqualFold(strings.Trim(f, ".,!?"), tok) {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}
