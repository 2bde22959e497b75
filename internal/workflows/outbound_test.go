package workflows

import (
	"context"
	"testing"

	"realestate-lead-orchestrator/internal/collaborators/crm"
	"realestate-lead-orchestrator/internal/models"
)

func TestOutboundProspectingWorkflow_PassGateEscalates(t *testing.T) {
	w := &OutboundProspectingWorkflow{}
	deps := testDeps()
	session := &models.Session{LeadID: "lead-6", LeadKind: models.LeadKindSeller, WorkflowState: w.InitialState()}

	turns := []string{
		"I need to sell my house fast, going through a divorce, so I'm thinking of selling right away.",
		"We need to close in 60 days or less, so I want to list my property and sell my house soon",
		"Yes I'm the sole decision maker on the listing and I'm selling my home on my own",
		"The house is move-in ready, so what's my home worth if I put my house on the market?",
	}
	var plan models.OutboundPlan
	for _, turn := range turns {
		appendUserTurn(session, turn)
		plan = w.Handle(context.Background(), deps, session, turn)
	}

	if !plan.Escalate {
		t.Error("expected escalation once the qualification gate passes")
	}
	if session.WorkflowState.Step != "qualified" {
		t.Errorf("step = %q, want qualified", session.WorkflowState.Step)
	}
}

func TestOutboundProspectingWorkflow_FailGateHandsOffToNurture(t *testing.T) {
	w := &OutboundProspectingWorkflow{}
	deps := testDeps()
	session := &models.Session{LeadID: "lead-7", LeadKind: models.LeadKindSeller, WorkflowState: w.InitialState()}

	appendUserTurn(session, "just curious what my house is worth")
	plan := w.Handle(context.Background(), deps, session, "just curious what my house is worth")

	if plan.Escalate {
		t.Error("did not expect escalation on a low-confidence reply")
	}
	if plan.HandoffTo != models.BotNurtureSequence {
		t.Errorf("handoff = %v, want nurture-sequence", plan.HandoffTo)
	}
	if session.WorkflowState.Step != "nurture-handoff" {
		t.Errorf("step = %q, want nurture-handoff", session.WorkflowState.Step)
	}
}

func TestSourceCandidates_DedupesAndCaps(t *testing.T) {
	client := crm.NewStubClient()
	client.Contacts = []crm.Contact{
		{ID: "1", Stage: "stale"},
		{ID: "2", Stage: "stale"},
		{ID: "3", Stage: "other"},
	}

	out, err := SourceCandidates(context.Background(), client, "loc-1", "stale", 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	seen := map[string]bool{}
	for _, c := range out {
		if seen[c.ID] {
			t.Errorf("duplicate contact %s in result", c.ID)
		}
		seen[c.ID] = true
	}
}
