package workflows

import (
	"context"
	"testing"
	"time"

	"realestate-lead-orchestrator/internal/collaborators/llm"
	"realestate-lead-orchestrator/internal/config"
	"realestate-lead-orchestrator/internal/events"
	"realestate-lead-orchestrator/internal/intent"
	"realestate-lead-orchestrator/internal/models"
)

func testDeps() Deps {
	cfg := config.Default()
	return Deps{
		Config:     cfg,
		Classifier: intent.ThresholdClassifier{Thresholds: cfg.ClassificationThresholds},
		LLM:        llm.TemplateClient{},
		Emitter:    events.New(),
	}
}

func appendUserTurn(session *models.Session, content string) {
	session.ConversationHistory = append(session.ConversationHistory, models.ConversationTurn{
		Role: models.RoleUser, Content: content, Timestamp: time.Now(),
	})
}

func TestSellerQualifyWorkflow_StallThenBreaker(t *testing.T) {
	w := &SellerQualifyWorkflow{}
	deps := testDeps()
	session := &models.Session{LeadID: "lead-1", LeadKind: models.LeadKindSeller, WorkflowState: w.InitialState()}

	appendUserTurn(session, "I need to think about it")
	plan := w.Handle(context.Background(), deps, session, "I need to think about it")

	if session.WorkflowState.Tone != "confrontational" {
		t.Errorf("tone = %q, want confrontational", session.WorkflowState.Tone)
	}
	if plan.Text == "" {
		t.Error("expected a stall-breaker response")
	}

	appendUserTurn(session, "still thinking")
	plan = w.Handle(context.Background(), deps, session, "still thinking")
	if session.WorkflowState.Step != "disengaged" {
		t.Errorf("step = %q, want disengaged after second consecutive stall", session.WorkflowState.Step)
	}
	_ = plan
}

func TestSellerQualifyWorkflow_HotQualificationAfterFourAnswers(t *testing.T) {
	w := &SellerQualifyWorkflow{}
	deps := testDeps()
	session := &models.Session{LeadID: "lead-1", LeadKind: models.LeadKindSeller, WorkflowState: w.InitialState()}

	turns := []string{
		"I need to sell my house fast, going through a divorce.",
		"We need to close in 60 days or less",
		"Yes I'm the sole decision maker",
		"The house is move-in ready",
	}
	var plan models.OutboundPlan
	for _, turn := range turns {
		appendUserTurn(session, turn)
		plan = w.Handle(context.Background(), deps, session, turn)
	}

	if session.WorkflowState.Step != "qualified" {
		t.Errorf("step = %q, want qualified", session.WorkflowState.Step)
	}
	if plan.HandoffTo == "" && !plan.Escalate {
		t.Error("expected either a handoff target or an escalation on hot qualification")
	}
}
