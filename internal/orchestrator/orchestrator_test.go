package orchestrator

import (
	"context"
	"testing"

	"realestate-lead-orchestrator/internal/collaborators/crm"
	"realestate-lead-orchestrator/internal/collaborators/llm"
	"realestate-lead-orchestrator/internal/compliance"
	"realestate-lead-orchestrator/internal/config"
	"realestate-lead-orchestrator/internal/events"
	"realestate-lead-orchestrator/internal/intent"
	"realestate-lead-orchestrator/internal/models"
	"realestate-lead-orchestrator/internal/session"
	"realestate-lead-orchestrator/internal/workflows"
)

func testOrchestrator() (*Orchestrator, *crm.StubClient) {
	cfg := config.Default()
	stubCRM := crm.NewStubClient()
	deps := workflows.Deps{
		Config:     cfg,
		Classifier: intent.ThresholdClassifier{Thresholds: cfg.ClassificationThresholds},
		LLM:        llm.TemplateClient{},
		CRM:        stubCRM,
		Emitter:    events.New(),
	}
	o := New(cfg,
		session.New(cfg, nil),
		compliance.NewGate(cfg, nil),
		stubCRM,
		workflows.NewRegistry(),
		deps,
		deps.Emitter,
	)
	return o, stubCRM
}

func TestHandleInbound_RejectsMalformedInput(t *testing.T) {
	o, _ := testOrchestrator()
	_, err := o.HandleInbound(context.Background(), Request{})
	if err != ErrMalformedInput {
		t.Errorf("err = %v, want ErrMalformedInput", err)
	}
}

func TestHandleInbound_STOPNeverReachesWorkflow(t *testing.T) {
	o, stubCRM := testOrchestrator()
	result, err := o.HandleInbound(context.Background(), Request{
		LeadID: "lead-stop", Channel: models.ChannelSMS, Content: "STOP", Phone: "5551234567",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stubCRM.Sent) != 0 {
		t.Error("STOP should never produce an outbound send")
	}

	status := o.Compliance.Status("5551234567")
	if !status.OptedOut {
		t.Error("expected phone to be opted out")
	}
	foundOptOut := false
	for _, e := range result.Events {
		if e.Kind == models.EventSMSOptOut {
			foundOptOut = true
		}
	}
	if !foundOptOut {
		t.Error("expected an sms-opt-out event")
	}
}

func TestHandleInbound_SellerQualificationSetsBotAndEmitsInbound(t *testing.T) {
	o, _ := testOrchestrator()
	turns := []string{
		"I need to sell my house fast, going through a divorce.",
		"We need to close in 60 days or less",
		"Yes I'm the sole decision maker",
		"The house is move-in ready",
	}

	var result Result
	var err error
	for _, turn := range turns {
		result, err = o.HandleInbound(context.Background(), Request{
			LeadID: "lead-hot", Channel: models.ChannelChat, Content: turn, LeadKindHint: models.LeadKindSeller,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if result.Session.CurrentBotKind == "" {
		t.Error("expected currentBotKind to be set")
	}
	foundInbound := false
	for _, e := range result.Events {
		if e.Kind == models.EventInboundReceived {
			foundInbound = true
		}
	}
	if !foundInbound {
		t.Error("expected an inbound-received event on every call")
	}
}

func TestHandleInbound_SessionHistoryIsNonDecreasing(t *testing.T) {
	o, _ := testOrchestrator()
	req := Request{LeadID: "lead-grow", Channel: models.ChannelChat, Content: "hello", LeadKindHint: models.LeadKindBuyer}

	result, err := o.HandleInbound(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	firstLen := len(result.Session.ConversationHistory)

	req.Content = "following up"
	result, err = o.HandleInbound(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Session.ConversationHistory) <= firstLen {
		t.Errorf("history length did not grow: %d -> %d", firstLen, len(result.Session.ConversationHistory))
	}
}
