package workflows

import (
	"context"
	"testing"

	"realestate-lead-orchestrator/internal/models"
)

func TestBuyerQualifyWorkflow_AdvancesStepOnEachTurn(t *testing.T) {
	w := &BuyerQualifyWorkflow{}
	deps := testDeps()
	session := &models.Session{LeadID: "lead-2", LeadKind: models.LeadKindBuyer, WorkflowState: w.InitialState()}

	appendUserTurn(session, "Looking to buy in the next few months")
	w.Handle(context.Background(), deps, session, "Looking to buy in the next few months")
	if session.WorkflowState.Step != buyerSteps[1] {
		t.Errorf("step = %q, want %q", session.WorkflowState.Step, buyerSteps[1])
	}
}

func TestBuyerQualifyWorkflow_ColdDowngrade(t *testing.T) {
	w := &BuyerQualifyWorkflow{}
	deps := testDeps()
	session := &models.Session{LeadID: "lead-5", LeadKind: models.LeadKindBuyer, WorkflowState: w.InitialState()}

	appendUserTurn(session, "Just browsing, not really looking.")
	plan := w.Handle(context.Background(), deps, session, "Just browsing, not really looking.")
	if plan.Escalate {
		t.Error("cold lead should not escalate")
	}
	if plan.HandoffTo != "" {
		t.Error("cold lead should not trigger a handoff")
	}
}
