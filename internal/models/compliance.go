package models

import "time"

// ComplianceRecord is the per-phone-number TCPA compliance state (§3).
// Counters are rolling within their period and reset lazily at operation
// time when the stored period-start goes stale.
type ComplianceRecord struct {
	Phone           string       `json:"phone"`
	OptedOut        bool         `json:"opted_out"`
	OptOutReason    OptOutReason `json:"opt_out_reason,omitempty"`
	OptOutAt        time.Time    `json:"opt_out_at,omitempty"`
	DailyCount      int          `json:"daily_count"`
	DailyPeriod     string       `json:"daily_period"`   // "2006-01-02"
	MonthlyCount    int          `json:"monthly_count"`
	MonthlyPeriod   string       `json:"monthly_period"` // "2006-01"
	LastSentAt      time.Time    `json:"last_sent_at,omitempty"`
}

// ValidateSendResult is validateSend's return value (§4.3).
type ValidateSendResult struct {
	Allowed        bool       `json:"allowed"`
	Reason         DenyReason `json:"reason,omitempty"`
	DailyCount     int        `json:"daily_count"`
	MonthlyCount   int        `json:"monthly_count"`
	AdvisoryNote   string     `json:"advisory_note,omitempty"`
}

// ProcessInboundResult is processInbound's return value (§4.3).
type ProcessInboundResult struct {
	Action          string   `json:"action"` // "opt-out-processed" | "message-processed"
	ComplianceFlags []string `json:"compliance_flags,omitempty"`
}
