// Package rtintent implements the Real-Time Intent Updater (§4.7): a
// bounded, pure-compute delta engine invoked on every inbound message
// after the first, so a full Intent Decoder pass isn't needed on every
// turn.
package rtintent

import (
	"strings"

	"realestate-lead-orchestrator/internal/models"
)

var urgencyMarkers = []string{"asap", "immediately", "right away", "urgent"}
var cashReadinessMarkers = []string{"cash buyer", "cash offer", "paying cash", "pre-approved"}
var strongCommitmentMarkers = []string{"ready to move forward", "let's do this", "i'm in", "definitely interested"}
var weakCommitmentMarkers = []string{"not sure", "maybe", "still deciding", "i don't know"}

// Update implements update(session, newMessage) → IncrementalUpdate
// (§4.7). The caller (the orchestrator's step 4) only invokes this after a
// session's first message: that first message instead seeds
// session.LastScoreSnapshot from a full Intent Decoder pass, since a delta
// has nothing to apply against yet. Update still tolerates being called
// with a single user turn by returning zero deltas, for callers that skip
// the seeding step.
func Update(session *models.Session, newMessage string) models.IncrementalUpdate {
	userTurns := session.ConversationHistory.UserMessages()
	trigger := truncateTrigger(newMessage)
	if len(userTurns) <= 1 {
		return models.IncrementalUpdate{Trigger: trigger}
	}

	context := newMessage
	start := len(userTurns) - 2
	if start < 0 {
		start = 0
	}
	for _, t := range userTurns[start:] {
		context += " " + t.Content
	}
	lower := strings.ToLower(context)

	var frsDelta, pcsDelta float64
	var markerCount int
	var signals []models.Signal

	if containsAny(lower, urgencyMarkers) {
		frsDelta += 5
		markerCount++
		signals = append(signals, models.SignalTimelineUrgency)
	}
	if containsAny(lower, cashReadinessMarkers) {
		frsDelta += 8
		markerCount++
		signals = append(signals, models.SignalMotivationUp)
	}
	if containsAny(lower, strongCommitmentMarkers) {
		pcsDelta += 10
		markerCount++
		signals = append(signals, models.SignalEngagementSpike)
	}
	if containsAny(lower, weakCommitmentMarkers) {
		pcsDelta -= 5
		markerCount++
		signals = append(signals, models.SignalDisengagementWarning)
	}

	words := len(strings.Fields(newMessage))
	switch {
	case words > 20:
		pcsDelta += 3
		markerCount++
	case words < 5:
		pcsDelta -= 2
		markerCount++
	}

	confidence := float64(markerCount) * 0.25
	if confidence > 1.0 {
		confidence = 1.0
	}

	return models.IncrementalUpdate{
		FRSDelta:          frsDelta,
		PCSDelta:          pcsDelta,
		Confidence:        confidence,
		SignalsDetected:   signals,
		RecommendedAction: recommendAction(session, frsDelta, pcsDelta, signals),
		Trigger:           trigger,
	}
}

// truncateTrigger implements §3's trigger definition: the first 100
// characters of the message that caused the update, rune-safe so a
// multi-byte character is never split.
func truncateTrigger(message string) string {
	r := []rune(message)
	if len(r) <= 100 {
		return message
	}
	return string(r[:100])
}

func recommendAction(session *models.Session, frsDelta, pcsDelta float64, signals []models.Signal) models.RecommendedAction {
	for _, s := range signals {
		if s == models.SignalDisengagementWarning {
			return models.ActionReEngagementRequired
		}
	}
	var lastFRS float64
	if session.LastScoreSnapshot != nil {
		lastFRS = session.LastScoreSnapshot.FRS.Total
	}
	newTotal := clamp(lastFRS+frsDelta, 0, 100)
	switch {
	case newTotal >= 75:
		return models.ActionImmediateCall
	case newTotal >= 50:
		return models.ActionAccelerateSequence
	case newTotal >= 25:
		return models.ActionSoftFollowup
	default:
		return models.ActionContinueNurture
	}
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ApplyDelta clamps and applies an IncrementalUpdate's deltas to the
// session's last known totals, returning the new totals for the caller
// to store as the next ScoreSnapshot.
func ApplyDelta(session *models.Session, update models.IncrementalUpdate) (frsTotal, pcsTotal float64) {
	var lastFRS, lastPCS float64
	if session.LastScoreSnapshot != nil {
		lastFRS = session.LastScoreSnapshot.FRS.Total
		lastPCS = session.LastScoreSnapshot.PCS.Total
	}
	frsTotal = clamp(lastFRS+update.FRSDelta, 0, 100)
	pcsTotal = clamp(lastPCS+update.PCSDelta, 0, 100)
	return frsTotal, pcsTotal
}
