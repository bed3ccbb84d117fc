package core

// PlanKind tags the routing plan variants. Execution sites switch on it
// exhaustively instead of probing payload fields.
type PlanKind string

const (
	PlanFastPathCard  PlanKind = "FAST_PATH_CARD"
	PlanCardRecommend PlanKind = "CARD_RECOMMEND"
	PlanLore          PlanKind = "LORE"
	PlanFacts         PlanKind = "FACTS"
	PlanChat          PlanKind = "CHAT"
	PlanNoResponse    PlanKind = "NORESPONSE"
	PlanCmdRoute      PlanKind = "CMDROUTE"
)

// Reason codes carried on every plan. Logged, never user-visible.
const (
	ReasonClassifier         = "classifier"
	ReasonEntityOverride     = "entity_override"
	ReasonPersonaChat        = "persona_chat"
	ReasonDescriptorOverride = "descriptor_override"
	ReasonDominantEntity     = "dominant_entity"
	ReasonFastPathMargin     = "fastpath_margin"
	ReasonNoEvidence         = "no_evidence"
	ReasonKnowledgeDown      = "knowledge_unavailable"
	ReasonComposeFallback    = "compose_fallback"
	ReasonLLMError           = "llm_error"
	ReasonHostileTone        = "hostile_tone"
	ReasonBadCommand         = "bad_command"
	ReasonCommand            = "command"
)

// RetrievalSnapshot is the evidence state a plan was built from.
type RetrievalSnapshot struct {
	Candidates []RetrievalCandidate
	Metrics    RetrievalMetrics
}

// NarrativePayload backs FACTS and LORE plans.
type NarrativePayload struct {
	Story    string
	Sources  []string
	Clusters []ClusterSummary
}

// FastPathPayload backs FAST_PATH_CARD: a short acknowledgement plus the
// entity whose full display is delegated to the command router.
type FastPathPayload struct {
	Entity string
	Ack    string
}

// RecommendPayload backs CARD_RECOMMEND.
type RecommendPayload struct {
	Entity string
	Reason string
}

// ChatPayload backs CHAT.
type ChatPayload struct {
	Text string
}

// NoResponsePayload backs NORESPONSE. The emoji is advisory; the transport
// decides whether to deliver it.
type NoResponsePayload struct {
	Emoji string
}

// CmdPayload backs CMDROUTE with the normalized leading-slash command.
type CmdPayload struct {
	Command string
}

// Plan is the sole contract between the routing engine and the execution
// layer. Exactly one payload pointer is set, matching Kind.
type Plan struct {
	Kind      PlanKind
	Intent    Intent
	Reason    string
	Retrieval RetrievalSnapshot

	Narrative  *NarrativePayload
	FastPath   *FastPathPayload
	Recommend  *RecommendPayload
	Chat       *ChatPayload
	NoResponse *NoResponsePayload
	Cmd        *CmdPayload
}

// NoResponsePlan is the universal degraded outcome.
func NoResponsePlan(intent Intent, reason, emoji string) Plan {
	return Plan{
		Kind:       PlanNoResponse,
		Intent:     intent,
		Reason:     reason,
		NoResponse: &NoResponsePayload{Emoji: emoji},
	}
}
