package models

import "time"

// EscalationGlobalConfig is the tenant-wide default for whether a bot's
// drafted OutboundPlan auto-sends or is held for a human agent. Adapted
// from the teacher's auto-reply config: same shape (global default +
// per-lead override, both gated on a confidence threshold), repointed to
// the Orchestrator's human-handoff decision instead of a support-desk
// auto-responder.
type EscalationGlobalConfig struct {
	TenantID            string    `json:"tenant_id"`
	AutoSendEnabled     bool      `json:"auto_send_enabled"`
	ConfidenceThreshold float64   `json:"confidence_threshold"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// EscalationLeadConfig is a per-lead override of the global policy.
type EscalationLeadConfig struct {
	LeadID              string     `json:"lead_id"`
	AutoSendEnabled      bool       `json:"auto_send_enabled"`
	ConfidenceThreshold  *float64   `json:"confidence_threshold,omitempty"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
