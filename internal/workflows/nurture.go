package workflows

import (
	"context"

	"realestate-lead-orchestrator/internal/collaborators/cma"
	"realestate-lead-orchestrator/internal/collaborators/llm"
	"realestate-lead-orchestrator/internal/models"
)

// nurtureCadenceDays is the fixed touchpoint schedule (§4.5).
var nurtureCadenceDays = []string{"day-3", "day-7", "day-14", "day-30"}

// NurtureSequenceWorkflow implements the nurture-sequence bot (§4.5).
type NurtureSequenceWorkflow struct{}

// Kind implements Workflow.
func (w *NurtureSequenceWorkflow) Kind() models.BotKind { return models.BotNurtureSequence }

// InitialState implements Workflow.
func (w *NurtureSequenceWorkflow) InitialState() models.WorkflowState {
	return models.WorkflowState{
		Kind: models.BotNurtureSequence,
		Step: nurtureCadenceDays[0],
		Tone: "warm",
		Data: map[string]interface{}{"channel": string(models.ChannelSMS)},
	}
}

// Handle implements Workflow. A reply mid-cadence recomputes intent and
// applies the early-warning escalation rule; it does not by itself
// advance the cadence (that is AdvanceTouch's job; nothing in this
// repository calls AdvanceTouch on a schedule).
func (w *NurtureSequenceWorkflow) Handle(ctx context.Context, deps Deps, session *models.Session, incoming string) models.OutboundPlan {
	if session.WorkflowState.Data == nil {
		session.WorkflowState = w.InitialState()
	}

	profile, err := AnalyzeIntent(deps, session)
	if err != nil {
		return models.OutboundPlan{Text: "Thanks for your message — I'll follow up shortly."}
	}

	// The session's current temperature is its last score snapshot when
	// one exists, else this turn's decoder pass.
	temperature := profile.Classification
	if session.LastScoreSnapshot != nil {
		temperature = session.LastScoreSnapshot.Classification
	}
	warmOrBetter := temperature == models.ClassificationWarm || temperature == models.ClassificationHot
	if w.monotonicDecline(session) && warmOrBetter {
		session.WorkflowState.Data["channel"] = string(models.ChannelSMS)
		session.WorkflowState.Step = "day-3"
		deps.Emitter.Publish(models.EventStallDetected, session.LeadID, map[string]interface{}{
			"reason": "monotonic-decline-early-warning",
		})
		return models.OutboundPlan{
			Text: "I wanted to check back in — is there anything that's changed, or questions I can help answer?",
		}
	}

	return w.draftGeneric(ctx, deps, session)
}

// monotonicDecline implements the early-warning rule: the last three
// score snapshots show a monotonic decline.
func (w *NurtureSequenceWorkflow) monotonicDecline(session *models.Session) bool {
	h := session.ScoreHistory
	if len(h) < 3 {
		return false
	}
	last3 := h[len(h)-3:]
	return last3[0].FRSTotal > last3[1].FRSTotal && last3[1].FRSTotal > last3[2].FRSTotal
}

// AdvanceTouch runs one cadence touchpoint (§4.5). day is one of
// "day-3", "day-7", "day-14", "day-30", chosen by the caller; no
// scheduler in this repository invokes it.
func (w *NurtureSequenceWorkflow) AdvanceTouch(ctx context.Context, deps Deps, session *models.Session, generator cma.Generator, day string) models.OutboundPlan {
	profile, err := AnalyzeIntent(deps, session)
	if err != nil {
		profile = models.IntentProfile{Classification: models.ClassificationCold}
	}
	session.WorkflowState.Step = day

	switch day {
	case "day-7":
		return models.OutboundPlan{
			Text: "I'd love to hop on a quick call if you're open to it — happy to work around your schedule.",
			Actions: []models.OutboundAction{
				{Kind: models.ActionKindScheduleFollowup, Status: models.ActionStatusPending, Detail: "voice-call-attempt"},
			},
		}
	case "day-30":
		return w.day30Outcome(ctx, deps, session, generator, profile)
	default:
		return models.OutboundPlan{Text: "Just checking in — let me know if anything's changed on your end."}
	}
}

func (w *NurtureSequenceWorkflow) day30Outcome(ctx context.Context, deps Deps, session *models.Session, generator cma.Generator, profile models.IntentProfile) models.OutboundPlan {
	conversionProbability := profile.FRS.Total/100*0.6 + profile.PCS.Total/100*0.4
	dropoffRisk := 1 - conversionProbability

	var cmaSummary string
	if generator != nil {
		result, err := generator.Generate(ctx, cma.Request{Neighborhood: "", Bedrooms: 0, TargetPrice: 0})
		if err != nil {
			deps.Emitter.Publish(models.EventExternalDegraded, session.LeadID, map[string]interface{}{"collaborator": "cma"})
		} else {
			cmaSummary = result.Summary
		}
	}

	switch {
	case conversionProbability >= 0.6:
		session.WorkflowState.Step = "terminal:qualify-handoff"
		return models.OutboundPlan{
			Text:      "Based on everything we've discussed, I think it's time to connect you with a next step.",
			HandoffTo: models.BotSellerQualify,
			Actions: []models.OutboundAction{
				{Kind: models.ActionKindTriggerHandoff, Status: models.ActionStatusPending, Detail: "day-30-qualify"},
				{Kind: models.ActionKindGenerateCMA, Status: models.ActionStatusPending, Detail: cmaSummary},
			},
		}
	case dropoffRisk >= 0.7:
		session.WorkflowState.Step = "terminal:graceful-disengage"
		return models.OutboundPlan{
			Text: "I don't want to keep reaching out if the timing isn't right — I'll step back, but I'm here whenever you're ready.",
		}
	default:
		session.WorkflowState.Step = "terminal:continue-nurture"
		return models.OutboundPlan{
			Text: "I'll keep sharing relevant updates as they come up — no pressure at all.",
		}
	}
}

func (w *NurtureSequenceWorkflow) draftGeneric(ctx context.Context, deps Deps, session *models.Session) models.OutboundPlan {
	client := deps.LLM
	if client == nil {
		client = llm.TemplateClient{}
	}
	result, err := client.DraftResponse(ctx, llm.DraftRequest{
		SystemPrompt: "You are a real-estate nurture assistant keeping a light-touch relationship warm.",
		History:      session.ConversationHistory,
		Tone:         session.WorkflowState.Tone,
	})
	if err != nil {
		deps.Emitter.Publish(models.EventExternalDegraded, session.LeadID, map[string]interface{}{"collaborator": "llm"})
		return models.OutboundPlan{Text: "Thanks for staying in touch — I'll follow up again soon."}
	}
	return models.OutboundPlan{Text: result.Text}
}
