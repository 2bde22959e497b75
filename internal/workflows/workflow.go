// Package workflows implements the Bot Workflows (§4.5): directed state
// machines over a lead's session. Every workflow shares the same common
// node vocabulary (analyze-intent, detect-stall, route, draft-response)
// and the same failure semantics: a node that calls an external
// collaborator treats failure as soft and always produces a plan.
package workflows

import (
	"context"

	"realestate-lead-orchestrator/internal/collaborators/cma"
	"realestate-lead-orchestrator/internal/collaborators/crm"
	"realestate-lead-orchestrator/internal/collaborators/llm"
	"realestate-lead-orchestrator/internal/config"
	"realestate-lead-orchestrator/internal/events"
	"realestate-lead-orchestrator/internal/intent"
	"realestate-lead-orchestrator/internal/models"
	"realestate-lead-orchestrator/internal/stall"
)

// Deps are the collaborators and configuration every workflow node may
// consult. Passed by value at each Handle call; the fields themselves are
// shared, long-lived instances.
type Deps struct {
	Config     config.Config
	Classifier intent.Classifier
	LLM        llm.Client
	CRM        crm.Client
	CMA        cma.Generator
	Emitter    *events.Emitter
}

// Workflow is one bot's state machine (§4.5).
type Workflow interface {
	Kind() models.BotKind
	// InitialState returns the state a session is reset to on handoff into
	// this workflow (§4.6 handoff semantics: "not its terminal").
	InitialState() models.WorkflowState
	// Handle runs the workflow from session.WorkflowState (mutated in
	// place) to produce the turn's OutboundPlan.
	Handle(ctx context.Context, deps Deps, session *models.Session, incoming string) models.OutboundPlan
}

// AnalyzeIntent is the common analyze-intent node: it invokes the Intent
// Decoder over the session's accumulated history (§4.5 node vocabulary).
func AnalyzeIntent(deps Deps, session *models.Session) (models.IntentProfile, error) {
	return intent.Analyze(session.LeadID, session.ConversationHistory, session.LeadKind, deps.Config.FRSWeights, deps.Classifier)
}

// DetectStall is the common detect-stall node.
func DetectStall(session *models.Session) models.StallResult {
	return stall.Detect(session.ConversationHistory)
}

// Registry maps bot kind to its Workflow implementation.
type Registry map[models.BotKind]Workflow

// NewRegistry builds the standard registry of all four bot workflows.
func NewRegistry() Registry {
	return Registry{
		models.BotSellerQualify:       &SellerQualifyWorkflow{},
		models.BotBuyerQualify:        &BuyerQualifyWorkflow{},
		models.BotNurtureSequence:     &NurtureSequenceWorkflow{},
		models.BotOutboundProspecting: &OutboundProspectingWorkflow{},
	}
}
