package router

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sandevgo/pepebot/internal/config"
	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/internal/entity"
	"github.com/sandevgo/pepebot/internal/history"
	"github.com/sandevgo/pepebot/internal/knowledge"
	"github.com/sandevgo/pepebot/pkg/log"
)

// Deps collects the engine's collaborators. Everything is injected so
// tests can swap the LLM and search edges for stubs.
type Deps struct {
	History    *history.Store
	Classifier *Classifier
	Retriever  *knowledge.Retriever
	FastPath   *knowledge.FastPathDetector
	Freshness  *knowledge.Freshness
	Clusterer  *knowledge.Clusterer
	Composer   *knowledge.Composer
	Entities   *entity.Index
	Descriptor *entity.DescriptorMatcher
	Emojis     *EmojiPicker
	Chat       *ChatResponder
	Config     *config.RoutingConfig
	Persona    string
}

// Engine turns an inbound room message into exactly one routing plan.
// Route never returns an error: every failure inside degrades to a plan
// the transport can still execute, with the cause on the reason code.
type Engine struct {
	history    *history.Store
	classifier *Classifier
	retriever  *knowledge.Retriever
	fastpath   *knowledge.FastPathDetector
	freshness  *knowledge.Freshness
	clusterer  *knowledge.Clusterer
	composer   *knowledge.Composer
	entities   *entity.Index
	descriptor *entity.DescriptorMatcher
	emojis     *EmojiPicker
	chat       *ChatResponder
	cfg        *config.RoutingConfig
	persona    string
	rules      []overrideRule
}

func NewEngine(deps Deps) *Engine {
	if deps.Emojis == nil {
		deps.Emojis = NewEmojiPicker()
	}
	if deps.Persona == "" {
		deps.Persona = core.PepeName
	}
	return &Engine{
		history:    deps.History,
		classifier: deps.Classifier,
		retriever:  deps.Retriever,
		fastpath:   deps.FastPath,
		freshness:  deps.Freshness,
		clusterer:  deps.Clusterer,
		composer:   deps.Composer,
		entities:   deps.Entities,
		descriptor: deps.Descriptor,
		emojis:     deps.Emojis,
		chat:       deps.Chat,
		cfg:        deps.Config,
		persona:    deps.Persona,
		rules:      preRetrievalRules(),
	}
}

// Route classifies the message, applies the override chain and builds the
// plan for its final intent.
func (e *Engine) Route(ctx context.Context, roomID, author, text string) core.Plan {
	logger := log.FromCtx(ctx).With().
		Str("req", uuid.NewString()[:8]).
		Str("room", roomID).
		Logger()
	ctx = logger.WithContext(ctx)

	turns := e.history.RecentTurns(roomID, e.cfg.TranscriptTurns)
	transcript := BuildTranscript(turns, text, author, e.cfg.TranscriptTokens)

	cls := e.classifier.Classify(ctx, transcript)
	st := &requestState{
		roomID:     roomID,
		author:     author,
		raw:        text,
		query:      text,
		transcript: transcript,
		intent:     cls.Intent,
		command:    cls.Command,
		reason:     core.ReasonClassifier,
	}
	e.resolveOverrides(ctx, st)

	var plan core.Plan
	switch st.intent {
	case core.IntentNoResponse:
		plan = core.NoResponsePlan(st.intent, st.reason, e.emojis.Pick(text))
	case core.IntentCmdRoute:
		plan = core.Plan{
			Kind:   core.PlanCmdRoute,
			Intent: st.intent,
			Reason: core.ReasonCommand,
			Cmd:    &core.CmdPayload{Command: NormalizeCommand(st.command)},
		}
	case core.IntentChat:
		plan = e.chatPlan(ctx, st)
	default:
		plan = e.answerPlan(ctx, st)
	}

	logger.Info().
		Str("kind", string(plan.Kind)).
		Str("intent", string(plan.Intent)).
		Str("reason", plan.Reason).
		Msg("routed message")
	return plan
}

func (e *Engine) chatPlan(ctx context.Context, st *requestState) core.Plan {
	reason := st.reason
	if isHostile(st.raw) {
		reason = core.ReasonHostileTone
	}

	reply, ok := e.chat.Reply(ctx, st.transcript, st.raw)
	if !ok {
		return core.NoResponsePlan(core.IntentChat, core.ReasonLLMError, e.emojis.Pick(st.raw))
	}
	return core.Plan{
		Kind:   core.PlanChat,
		Intent: core.IntentChat,
		Reason: reason,
		Chat:   &core.ChatPayload{Text: reply},
	}
}

// answerPlan runs the evidence pipeline for FACTS and LORE. Empty evidence
// still produces a spoken answer; only total knowledge-service failure
// silences the bot.
func (e *Engine) answerPlan(ctx context.Context, st *requestState) core.Plan {
	candidates, metrics := e.retriever.Retrieve(ctx, st.query, st.intent)
	if len(metrics.PerSource) == 0 {
		log.FromCtx(ctx).Warn().Str("intent", string(st.intent)).Msg("no knowledge source reachable, staying silent")
		return core.NoResponsePlan(st.intent, core.ReasonKnowledgeDown, e.emojis.Pick(st.raw))
	}
	snapshot := core.RetrievalSnapshot{Candidates: candidates, Metrics: metrics}

	e.applyDominanceOverride(ctx, st, candidates)

	if fp := e.fastpath.Detect(candidates, st.raw); fp.Triggered {
		return core.Plan{
			Kind:      core.PlanFastPathCard,
			Intent:    st.intent,
			Reason:    core.ReasonFastPathMargin,
			Retrieval: snapshot,
			FastPath: &core.FastPathPayload{
				Entity: fp.Primary.Entity,
				Ack:    fmt.Sprintf("That'd be %s. Pulling it up.", fp.Primary.Entity),
			},
		}
	}

	if st.discovery {
		if rec := buildRecommendation(candidates); rec != nil {
			return core.Plan{
				Kind:      core.PlanCardRecommend,
				Intent:    st.intent,
				Reason:    st.reason,
				Retrieval: snapshot,
				Recommend: rec,
			}
		}
		// no card surfaced, answer from sources like any other question
	}

	fresh := e.freshness.Filter(ctx, st.roomID, candidates)

	var selected []core.RetrievalCandidate
	if st.intent == core.IntentLore {
		selected = knowledge.SelectMMR(fresh, e.cfg.SelectCount, e.cfg.MMRLambda)
	} else {
		selected = knowledge.SelectTopK(fresh, e.cfg.SelectCount)
	}

	reason := st.reason
	var clusters []core.ClusterSummary
	if len(selected) == 0 {
		reason = core.ReasonNoEvidence
	} else {
		e.freshness.MarkUsed(st.roomID, passageIDs(selected))
		clusters = e.clusterer.BuildSummaries(ctx, selected)
	}

	story, sources := e.composer.Compose(ctx, st.intent, st.query, clusters)

	kind := core.PlanFacts
	if st.intent == core.IntentLore {
		kind = core.PlanLore
	}
	return core.Plan{
		Kind:      kind,
		Intent:    st.intent,
		Reason:    reason,
		Retrieval: snapshot,
		Narrative: &core.NarrativePayload{
			Story:    story,
			Sources:  sources,
			Clusters: clusters,
		},
	}
}

func passageIDs(candidates []core.RetrievalCandidate) []string {
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	return ids
}
