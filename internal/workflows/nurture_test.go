package workflows

import (
	"context"
	"testing"

	"realestate-lead-orchestrator/internal/models"
)

func TestNurtureSequenceWorkflow_MonotonicDeclineEscalates(t *testing.T) {
	w := &NurtureSequenceWorkflow{}
	deps := testDeps()
	session := &models.Session{
		LeadID:        "lead-3",
		LeadKind:      models.LeadKindSeller,
		WorkflowState: w.InitialState(),
		ScoreHistory: []models.ScoreSnapshot{
			{FRSTotal: 60, Classification: models.ClassificationWarm},
			{FRSTotal: 50, Classification: models.ClassificationWarm},
			{FRSTotal: 40, Classification: models.ClassificationWarm},
		},
		LastScoreSnapshot: &models.IntentProfile{Classification: models.ClassificationWarm, FRS: models.FRS{Total: 40}},
	}
	appendUserTurn(session, "still interested but thinking")

	plan := w.Handle(context.Background(), deps, session, "still interested but thinking")
	if session.WorkflowState.Data["channel"] != string(models.ChannelSMS) {
		t.Errorf("channel = %v, want sms after escalation", session.WorkflowState.Data["channel"])
	}
	if plan.Text == "" {
		t.Error("expected a re-engagement message")
	}
}

func TestNurtureSequenceWorkflow_Day30EndsInTerminalOutcome(t *testing.T) {
	w := &NurtureSequenceWorkflow{}
	deps := testDeps()
	session := &models.Session{LeadID: "lead-4", WorkflowState: w.InitialState()}
	appendUserTurn(session, "ready to move forward, cash buyer, need to close asap")

	plan := w.AdvanceTouch(context.Background(), deps, session, nil, "day-30")
	if session.WorkflowState.Step != "terminal:qualify-handoff" && session.WorkflowState.Step != "terminal:continue-nurture" && session.WorkflowState.Step != "terminal:graceful-disengage" {
		t.Errorf("step = %q, want one of the three day-30 terminal outcomes", session.WorkflowState.Step)
	}
	if plan.Text == "" {
		t.Error("expected non-empty day-30 message")
	}
}
