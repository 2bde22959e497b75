package rtintent

import (
	"testing"
	"time"

	"realestate-lead-orchestrator/internal/models"
)

func sessionWithTurns(contents ...string) *models.Session {
	s := &models.Session{LeadID: "lead-1"}
	for _, c := range contents {
		s.ConversationHistory = append(s.ConversationHistory, models.ConversationTurn{
			Role: models.RoleUser, Content: c, Timestamp: time.Now(),
		})
	}
	return s
}

func TestUpdate_FirstMessageReturnsZeroDeltas(t *testing.T) {
	s := sessionWithTurns("hello there")
	update := Update(s, "hello there")
	if update.FRSDelta != 0 || update.PCSDelta != 0 {
		t.Errorf("expected zero deltas on first message, got %+v", update)
	}
	if update.Trigger != "hello there" {
		t.Errorf("trigger = %q, want the message text", update.Trigger)
	}
}

func TestUpdate_UrgencyAndCashReadinessAddFRSDelta(t *testing.T) {
	s := sessionWithTurns("hi", "I need to move ASAP, I'm a cash buyer")
	update := Update(s, "I need to move ASAP, I'm a cash buyer")
	if update.FRSDelta != 13 {
		t.Errorf("frsDelta = %v, want 13 (5 urgency + 8 cash-readiness)", update.FRSDelta)
	}
}

func TestUpdate_ConfidenceCapsAtOne(t *testing.T) {
	s := sessionWithTurns("hi", "ASAP cash buyer ready to move forward not sure though this message has more than twenty words in it to trigger the length bonus too")
	update := Update(s, "ASAP cash buyer ready to move forward not sure though this message has more than twenty words in it to trigger the length bonus too")
	if update.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0 (capped)", update.Confidence)
	}
}

func TestApplyDelta_ClampsToValidRange(t *testing.T) {
	s := sessionWithTurns("a", "b")
	s.LastScoreSnapshot = &models.IntentProfile{FRS: models.FRS{Total: 98}}
	update := models.IncrementalUpdate{FRSDelta: 10}
	frsTotal, _ := ApplyDelta(s, update)
	if frsTotal != 100 {
		t.Errorf("frsTotal = %v, want 100 (clamped)", frsTotal)
	}
}
