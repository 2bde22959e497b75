package workflows

import (
	"context"

	"realestate-lead-orchestrator/internal/collaborators/crm"
	"realestate-lead-orchestrator/internal/models"
)

// OutboundProspectingWorkflow implements the outbound-prospecting bot
// (§4.5). SourceCandidates pulls candidates from a stale CRM pipeline
// stage and from contacts inactive since a cutoff; expired listings are
// not a source, and sourced candidates are not enrolled into
// nurture-sequence here. On a reply, Handle runs the qualification gate:
// a pass escalates to a human, a fail hands off to nurture-sequence.
type OutboundProspectingWorkflow struct{}

// Kind implements Workflow.
func (w *OutboundProspectingWorkflow) Kind() models.BotKind { return models.BotOutboundProspecting }

// InitialState implements Workflow.
func (w *OutboundProspectingWorkflow) InitialState() models.WorkflowState {
	return models.WorkflowState{Kind: models.BotOutboundProspecting, Step: "sourced"}
}

// Handle implements Workflow. Compliance Gate's processInbound has
// already run by the time this is called (§4.5: "before the workflow
// sees the message"), so STOP keywords never reach here.
func (w *OutboundProspectingWorkflow) Handle(ctx context.Context, deps Deps, session *models.Session, incoming string) models.OutboundPlan {
	profile, err := AnalyzeIntent(deps, session)
	if err != nil {
		return models.OutboundPlan{Text: "Thanks for your message — I'll follow up shortly."}
	}

	decision := EvaluateQualificationGate(profile, deps.Config.HandoffThresholds)
	if decision.Pass {
		session.WorkflowState.Step = "qualified"
		return models.OutboundPlan{
			Text:     "Thanks for getting back to me — I'd like to connect you with someone who can help right away.",
			Escalate: true,
			Actions: []models.OutboundAction{
				{Kind: models.ActionKindTriggerHandoff, Status: models.ActionStatusPending, Detail: "outbound-qualified"},
			},
		}
	}

	session.WorkflowState.Step = "nurture-handoff"
	return models.OutboundPlan{
		Text:      "Thanks for the reply — I'll keep you posted with helpful updates.",
		HandoffTo: models.BotNurtureSequence,
		Actions: []models.OutboundAction{
			{Kind: models.ActionKindTriggerHandoff, Status: models.ActionStatusPending, Detail: decision.Reason},
		},
	}
}

// SourceCandidates pulls candidate leads from a stale pipeline stage and
// from contacts inactive since inactiveSinceUnix, deduplicated by ID and
// capped at limit.
func SourceCandidates(ctx context.Context, client crm.Client, locationID, staleStageID string, inactiveSinceUnix int64, limit int) ([]crm.Contact, error) {
	stale, err := client.GetContactsByPipelineStage(ctx, locationID, staleStageID, limit)
	if err != nil {
		return nil, err
	}
	inactive, err := client.GetContactsInactiveSince(ctx, locationID, inactiveSinceUnix, limit)
	if err != nil {
		return stale, nil
	}
	seen := make(map[string]bool, len(stale))
	out := make([]crm.Contact, 0, len(stale)+len(inactive))
	for _, c := range stale {
		seen[c.ID] = true
		out = append(out, c)
	}
	for _, c := range inactive {
		if !seen[c.ID] {
			out = append(out, c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
