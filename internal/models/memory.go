package models

import "time"

// BehavioralProfile is the nurture-sequence workflow's required
// "behavioural profile (median response latency, preferred channel)"
// (§4.5). Adapted from the teacher's CustomerMemory: same per-lead,
// persists-across-conversations shape, repointed fields.
type BehavioralProfile struct {
	ID                     string    `json:"id"`
	LeadID                 string    `json:"lead_id"`
	PreferredChannel       Channel   `json:"preferred_channel"`
	MedianResponseSeconds  float64   `json:"median_response_seconds"`
	PastObjections         []string  `json:"past_objections"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}
