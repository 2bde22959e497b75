package workflows

import (
	"context"
	"strings"

	"realestate-lead-orchestrator/internal/collaborators/llm"
	"realestate-lead-orchestrator/internal/models"
)

var buyerSteps = []string{"discovery", "financial-readiness", "preferences", "property-match", "next-action"}

var buyerStepPrompts = map[string]string{
	"discovery":            "What's drawing you to look for a new home right now?",
	"financial-readiness":  "Have you spoken with a lender, or are you pre-approved already?",
	"preferences":          "What are you looking for — bedrooms, neighborhood, must-haves?",
	"property-match":       "I can pull a few homes that match what you described — want me to send some over?",
	"next-action":          "Would you like to schedule a tour for one of these, or keep browsing first?",
}

// BuyerQualifyWorkflow implements the buyer-qualify bot (§4.5).
type BuyerQualifyWorkflow struct{}

// Kind implements Workflow.
func (w *BuyerQualifyWorkflow) Kind() models.BotKind { return models.BotBuyerQualify }

// InitialState implements Workflow.
func (w *BuyerQualifyWorkflow) InitialState() models.WorkflowState {
	return models.WorkflowState{
		Kind: models.BotBuyerQualify,
		Step: buyerSteps[0],
		Tone: "warm",
		Data: map[string]interface{}{"step_index": 0},
	}
}

// Handle implements Workflow.
func (w *BuyerQualifyWorkflow) Handle(ctx context.Context, deps Deps, session *models.Session, incoming string) models.OutboundPlan {
	if session.WorkflowState.Data == nil {
		session.WorkflowState = w.InitialState()
	}

	profile, err := AnalyzeIntent(deps, session)
	if err != nil {
		return models.OutboundPlan{Text: "Thanks for your message — I'll follow up shortly."}
	}

	stallResult := DetectStall(session)
	if stallResult.Kind != models.StallNone {
		deps.Emitter.Publish(models.EventStallDetected, session.LeadID, map[string]interface{}{
			"kind": stallResult.Kind, "matched": stallResult.Matched,
		})
	}

	temperature := buyerTemperature(profile)

	preApproved := strings.Contains(strings.ToLower(incoming), "pre-approved") || strings.Contains(strings.ToLower(incoming), "preapproved")
	if temperature == models.ClassificationHot && preApproved && profile.FRS.Timeline.MinDurationDays > 0 && profile.FRS.Timeline.MinDurationDays <= 30 {
		session.WorkflowState.Step = "closing"
		deps.Emitter.Publish(models.EventHandoffTriggered, session.LeadID, map[string]interface{}{
			"from": models.BotBuyerQualify, "to": "human", "reason": "hot-preapproved-fast-timeline",
		})
		return models.OutboundPlan{
			Text:     "This is exciting — let's get you connected with scheduling right away so we can move quickly.",
			Escalate: true,
			Actions: []models.OutboundAction{
				{Kind: models.ActionKindTriggerHandoff, Status: models.ActionStatusPending, Detail: "buyer-closing"},
			},
		}
	}

	index, _ := session.WorkflowState.Data["step_index"].(int)
	if index < len(buyerSteps)-1 {
		index++
		session.WorkflowState.Data["step_index"] = index
	}
	session.WorkflowState.Step = buyerSteps[index]

	deps.Emitter.Publish(models.EventScoreUpdated, session.LeadID, map[string]interface{}{
		"classification": temperature, "step": session.WorkflowState.Step,
	})

	return w.draft(ctx, deps, session)
}

func buyerTemperature(profile models.IntentProfile) models.Classification {
	composite := (profile.FRS.Total + profile.FRS.Motivation.Score) / 2
	switch {
	case composite >= 75:
		return models.ClassificationHot
	case composite >= 50:
		return models.ClassificationWarm
	default:
		return models.ClassificationCold
	}
}

func (w *BuyerQualifyWorkflow) draft(ctx context.Context, deps Deps, session *models.Session) models.OutboundPlan {
	prompt, ok := buyerStepPrompts[session.WorkflowState.Step]
	if !ok {
		prompt = "What else can I help you with?"
	}
	client := deps.LLM
	if client == nil {
		client = llm.TemplateClient{}
	}
	result, err := client.DraftResponse(ctx, llm.DraftRequest{
		SystemPrompt: "You are a real-estate buyer-qualification assistant. Ask naturally: " + prompt,
		History:      session.ConversationHistory,
		Tone:         session.WorkflowState.Tone,
	})
	if err != nil {
		deps.Emitter.Publish(models.EventExternalDegraded, session.LeadID, map[string]interface{}{"collaborator": "llm"})
		return models.OutboundPlan{Text: prompt}
	}
	return models.OutboundPlan{Text: result.Text}
}
