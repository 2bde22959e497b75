package models

// StallResult is the Stall Detector's pure output (§4.2).
type StallResult struct {
	Kind    StallKind `json:"kind"`
	Matched string    `json:"matched,omitempty"`
}
