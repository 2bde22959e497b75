package models

import "time"

const (
	// ScoreHistoryCap bounds the score-history ring per §3.
	ScoreHistoryCap = 20
	// EmotionalTransitionsCap bounds the emotional-transitions ring per §3.
	EmotionalTransitionsCap = 20
)

// WorkflowState is a bot-specific position in its state machine. Each
// workflow kind interprets Step/Tone/Data in its own way; the session
// store treats it opaquely.
type WorkflowState struct {
	Kind       BotKind                `json:"kind"`
	Step       string                 `json:"step"`
	Tone       string                 `json:"tone,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// EmotionalTransition records a classification change, oldest first.
type EmotionalTransition struct {
	From Classification `json:"from"`
	To   Classification `json:"to"`
	At   time.Time      `json:"at"`
}

// Session is the per-lead in-memory state (§3). It is mutated by exactly
// one handler at a time (enforced by the Session Store's per-key lock) and
// never "downgrades": ConversationHistory only grows, and ScoreHistory
// only grows up to its cap (oldest dropped).
type Session struct {
	LeadID               string                 `json:"lead_id"`
	LeadName             string                 `json:"lead_name,omitempty"`
	LeadKind             LeadKind               `json:"lead_kind"`
	Phone                string                 `json:"phone,omitempty"`
	CurrentBotKind       BotKind                `json:"current_bot_kind"`
	ConversationHistory  History                `json:"conversation_history"`
	WorkflowState        WorkflowState          `json:"workflow_state"`
	LastScoreSnapshot    *IntentProfile         `json:"last_score_snapshot,omitempty"`
	ScoreHistory         []ScoreSnapshot        `json:"score_history"`
	EmotionalTransitions []EmotionalTransition  `json:"emotional_transitions"`
	StallCount           int                    `json:"stall_count"`
	LastInboundAt        time.Time              `json:"last_inbound_at"`
	LastOutboundAt       time.Time              `json:"last_outbound_at,omitempty"`
	CreatedAt            time.Time              `json:"created_at"`
}

// AppendScoreSnapshot appends a snapshot, dropping the oldest once the
// ring exceeds ScoreHistoryCap.
func (s *Session) AppendScoreSnapshot(snap ScoreSnapshot) {
	s.ScoreHistory = append(s.ScoreHistory, snap)
	if len(s.ScoreHistory) > ScoreHistoryCap {
		s.ScoreHistory = s.ScoreHistory[len(s.ScoreHistory)-ScoreHistoryCap:]
	}
}

// AppendEmotionalTransition appends a transition, dropping the oldest
// once the ring exceeds EmotionalTransitionsCap.
func (s *Session) AppendEmotionalTransition(t EmotionalTransition) {
	s.EmotionalTransitions = append(s.EmotionalTransitions, t)
	if len(s.EmotionalTransitions) > EmotionalTransitionsCap {
		s.EmotionalTransitions = s.EmotionalTransitions[len(s.EmotionalTransitions)-EmotionalTransitionsCap:]
	}
}

// Clone returns a deep-enough copy for use as an immutable snapshot handed
// to readers outside the per-session lock. ConversationHistory,
// ScoreHistory and EmotionalTransitions are copied into fresh slices; the
// WorkflowState.Data map and the LastScoreSnapshot pointer are shared with
// the original.
func (s *Session) Clone() *Session {
	clone := *s
	clone.ConversationHistory = append(History(nil), s.ConversationHistory...)
	clone.ScoreHistory = append([]ScoreSnapshot(nil), s.ScoreHistory...)
	clone.EmotionalTransitions = append([]EmotionalTransition(nil), s.EmotionalTransitions...)
	return &clone
}
