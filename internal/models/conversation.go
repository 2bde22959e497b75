package models

import "time"

// ConversationTurn is one message in a lead's conversation history, the
// unit the Intent Decoder and Stall Detector both operate on.
type ConversationTurn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Language  string    `json:"language,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// History is an ordered, append-only sequence of conversation turns.
type History []ConversationTurn

// UserMessages returns only the lead-authored turns, preserving order.
func (h History) UserMessages() []ConversationTurn {
	out := make([]ConversationTurn, 0, len(h))
	for _, t := range h {
		if t.Role == RoleUser {
			out = append(out, t)
		}
	}
	return out
}

// AuditRecord is a single immutable entry in the Compliance Gate's audit
// trail (§4.3): every validateSend denial, every recordSend, and every
// opt-out is appended here and never mutated.
type AuditRecord struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	EventType string    `json:"event_type"` // "validate-send-denied","record-send","opt-out-processed"
	Success   bool      `json:"success"`
	Reason    string    `json:"reason,omitempty"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
