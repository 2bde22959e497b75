package stall

import (
	"testing"
	"time"

	"realestate-lead-orchestrator/internal/models"
)

func userTurn(content string) models.ConversationTurn {
	return models.ConversationTurn{Role: models.RoleUser, Content: content, Timestamp: time.Now()}
}

func TestDetect_Thinking(t *testing.T) {
	history := models.History{userTurn("I need to think about it")}
	result := Detect(history)
	if result.Kind != models.StallThinking {
		t.Errorf("kind = %v, want thinking", result.Kind)
	}
	if result.Matched == "" {
		t.Error("expected a matched substring")
	}
}

func TestDetect_NoStall(t *testing.T) {
	history := models.History{userTurn("Sounds great, let's schedule a showing!")}
	result := Detect(history)
	if result.Kind != models.StallNone {
		t.Errorf("kind = %v, want none", result.Kind)
	}
}

func TestDetect_FirstMatchWinsOnTableOrder(t *testing.T) {
	history := models.History{userTurn("I need to think about it, also too expensive for me")}
	result := Detect(history)
	if result.Kind != models.StallThinking {
		t.Errorf("kind = %v, want thinking (earlier in table)", result.Kind)
	}
}

func TestDetect_WindowLimitsToRecentMessages(t *testing.T) {
	history := models.History{
		userTurn("I need to think about it"),
		userTurn("ok never mind, let's move forward"),
		userTurn("actually sounds good"),
		userTurn("yes let's schedule a call"),
		userTurn("great"),
		userTurn("perfect"),
		userTurn("thanks"),
	}
	result := DetectWindow(history, 6)
	if result.Kind != models.StallNone {
		t.Errorf("kind = %v, want none (thinking message fell outside window)", result.Kind)
	}
}

func TestDetect_EmptyHistory(t *testing.T) {
	result := Detect(nil)
	if result.Kind != models.StallNone {
		t.Errorf("kind = %v, want none", result.Kind)
	}
}
