// Package stall implements the Stall Detector (§4.2): a pure function
// from recent conversation history to a hesitation classification.
package stall

import (
	"strings"

	"realestate-lead-orchestrator/internal/models"
)

// DefaultWindow is the number of most-recent user messages scanned.
const DefaultWindow = 6

// Detect implements detect(recentHistory) → {kind, matched?}. It scans the
// concatenated lowercased text of the last DefaultWindow user messages
// against fixed keyword tables, in table order, first match wins.
func Detect(history models.History) models.StallResult {
	return DetectWindow(history, DefaultWindow)
}

// DetectWindow is Detect with an explicit window size, exposed so callers
// and tests can exercise non-default windows.
func DetectWindow(history models.History, window int) models.StallResult {
	userTurns := history.UserMessages()
	if len(userTurns) > window {
		userTurns = userTurns[len(userTurns)-window:]
	}

	var sb strings.Builder
	for _, turn := range userTurns {
		sb.WriteString(strings.ToLower(turn.Content))
		sb.WriteByte(' ')
	}
	text := sb.String()

	for _, table := range detectionTables {
		for _, kw := range table.keywords {
			if strings.Contains(text, kw) {
				return models.StallResult{Kind: table.kind, Matched: kw}
			}
		}
	}
	return models.StallResult{Kind: models.StallNone}
}
