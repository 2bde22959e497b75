package workflows

import (
	"context"

	"realestate-lead-orchestrator/internal/collaborators/llm"
	"realestate-lead-orchestrator/internal/models"
)

var sellerQuestionSteps = []string{"motivation", "timeline", "condition", "price"}

var sellerQuestionPrompts = map[string]string{
	"motivation": "What's prompting you to think about selling right now?",
	"timeline":   "Do you have a timeframe in mind for when you'd like to close?",
	"condition":  "How would you describe the home's current condition — anything that needs work?",
	"price":      "Do you have a price in mind, or have you looked at any comparable sales nearby?",
}

// sellerStallBreakers is the fixed table of stall-breaking prompts keyed
// by stall kind (§4.5).
var sellerStallBreakers = map[models.StallKind]string{
	models.StallThinking:          "Totally understandable — what would help you feel ready to decide?",
	models.StallPriceObjection:    "I hear you on price. Would it help to walk through recent comparable sales together?",
	models.StallZestimateFixation: "Online estimates are a starting point, but they don't see the inside of your home — a quick walkthrough gives a much more accurate number.",
	models.StallAgentConflict:     "No problem at all — if that changes, I'm happy to help whenever works for you.",
	models.StallBusy:              "No worries, I'll keep this short — want me to follow up at a better time?",
	models.StallMaybeLater:        "Sounds good — I'll check back down the road. Anything specific you'd want to know before then?",
}

// SellerQualifyWorkflow implements the seller-qualify bot (§4.5).
type SellerQualifyWorkflow struct{}

// Kind implements Workflow.
func (w *SellerQualifyWorkflow) Kind() models.BotKind { return models.BotSellerQualify }

// InitialState implements Workflow.
func (w *SellerQualifyWorkflow) InitialState() models.WorkflowState {
	return models.WorkflowState{
		Kind: models.BotSellerQualify,
		Step: sellerQuestionSteps[0],
		Tone: "warm",
		Data: map[string]interface{}{"question_index": 0},
	}
}

// Handle implements Workflow.
func (w *SellerQualifyWorkflow) Handle(ctx context.Context, deps Deps, session *models.Session, incoming string) models.OutboundPlan {
	if session.WorkflowState.Data == nil {
		session.WorkflowState = w.InitialState()
	}

	profile, err := AnalyzeIntent(deps, session)
	if err != nil {
		return models.OutboundPlan{Text: "Thanks for your message — I'll follow up shortly."}
	}

	stallResult := DetectStall(session)
	if stallResult.Kind != models.StallNone {
		return w.handleStall(deps, session, stallResult)
	}
	session.WorkflowState.Data["last_stall"] = ""

	if profile.PCS.Total < 20 {
		session.WorkflowState.Tone = "take-away"
		return w.draft(ctx, deps, session, "take-away")
	}

	index, _ := session.WorkflowState.Data["question_index"].(int)
	if index < len(sellerQuestionSteps) {
		index++
		session.WorkflowState.Data["question_index"] = index
	}

	if index >= len(sellerQuestionSteps) {
		return w.handleAllAnswered(ctx, deps, session, profile)
	}

	session.WorkflowState.Step = sellerQuestionSteps[index]
	session.WorkflowState.Tone = "warm"
	if profile.Classification == models.ClassificationHot {
		session.WorkflowState.Tone = "direct"
	}
	return w.draft(ctx, deps, session, session.WorkflowState.Tone)
}

func (w *SellerQualifyWorkflow) handleStall(deps Deps, session *models.Session, result models.StallResult) models.OutboundPlan {
	lastStall, _ := session.WorkflowState.Data["last_stall"].(string)
	consecutive := lastStall == string(result.Kind) && lastStall != ""
	session.WorkflowState.Data["last_stall"] = string(result.Kind)

	deps.Emitter.Publish(models.EventStallDetected, session.LeadID, map[string]interface{}{
		"kind": result.Kind, "matched": result.Matched,
	})

	if consecutive {
		session.WorkflowState.Step = "disengaged"
		return models.OutboundPlan{
			Text: "No worries — I'll step back for now. Feel free to reach out whenever you're ready.",
		}
	}

	session.WorkflowState.Tone = "confrontational"
	session.WorkflowState.Data["stall_breaker_attempted"] = true
	breaker, ok := sellerStallBreakers[result.Kind]
	if !ok {
		breaker = "I want to make sure I'm helping — what questions can I answer for you?"
	}
	return models.OutboundPlan{Text: breaker}
}

func (w *SellerQualifyWorkflow) handleAllAnswered(ctx context.Context, deps Deps, session *models.Session, profile models.IntentProfile) models.OutboundPlan {
	session.WorkflowState.Step = "qualified"

	if profile.Classification != models.ClassificationHot {
		return models.OutboundPlan{
			Text:      "Thanks for sharing all that — I'll keep you posted with relevant updates as things develop.",
			HandoffTo: models.BotNurtureSequence,
			Actions: []models.OutboundAction{
				{Kind: models.ActionKindTriggerHandoff, Status: models.ActionStatusPending, Detail: "seller-not-hot"},
			},
		}
	}

	plan := models.OutboundPlan{
		Text: "This all sounds great — based on what you've shared, I'd like to connect you with the next step right away.",
		Actions: []models.OutboundAction{
			{Kind: models.ActionKindTriggerHandoff, Status: models.ActionStatusPending, Detail: "seller-hot-qualified"},
		},
	}
	if profile.BuyerConfidence >= deps.Config.HandoffThresholds.ConfidenceMin {
		plan.HandoffTo = models.BotBuyerQualify
	} else {
		plan.Escalate = true
	}
	deps.Emitter.Publish(models.EventHandoffTriggered, session.LeadID, map[string]interface{}{
		"from": models.BotSellerQualify, "to": plan.HandoffTo, "reason": "hot-seller-qualified",
	})
	return plan
}

func (w *SellerQualifyWorkflow) draft(ctx context.Context, deps Deps, session *models.Session, tone string) models.OutboundPlan {
	prompt, ok := sellerQuestionPrompts[session.WorkflowState.Step]
	if !ok {
		prompt = "Tell me a bit more about what you're looking for."
	}
	client := deps.LLM
	if client == nil {
		client = llm.TemplateClient{}
	}
	result, err := client.DraftResponse(ctx, llm.DraftRequest{
		SystemPrompt: "You are a real-estate seller-qualification assistant. Ask this next question naturally: " + prompt,
		History:      session.ConversationHistory,
		Tone:         tone,
	})
	if err != nil {
		deps.Emitter.Publish(models.EventExternalDegraded, session.LeadID, map[string]interface{}{"collaborator": "llm"})
		return models.OutboundPlan{Text: prompt}
	}
	return models.OutboundPlan{Text: result.Text}
}
