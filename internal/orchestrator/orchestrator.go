// Package orchestrator implements the single inbound entry point (§4.6):
// handleInbound ties the Compliance Gate, Session Store, Real-Time Intent
// Updater, and Bot Workflows into one call that always produces an
// OutboundPlan, possibly a degraded one.
package orchestrator

import (
	"context"
	"errors"
	"strconv"
	"time"

	"realestate-lead-orchestrator/internal/collaborators/crm"
	"realestate-lead-orchestrator/internal/compliance"
	"realestate-lead-orchestrator/internal/config"
	"realestate-lead-orchestrator/internal/events"
	"realestate-lead-orchestrator/internal/intake"
	"realestate-lead-orchestrator/internal/models"
	"realestate-lead-orchestrator/internal/rtintent"
	"realestate-lead-orchestrator/internal/rules"
	"realestate-lead-orchestrator/internal/session"
	"realestate-lead-orchestrator/internal/workflows"

	"github.com/google/uuid"
)

// ErrMalformedInput is returned when an inbound payload is missing leadID
// or content. The only error handleInbound ever propagates to the caller
// (§7): no session is created.
var ErrMalformedInput = errors.New("malformed input: leadID and content are required")

// Request is handleInbound's input (§6 Inbound API).
type Request struct {
	LeadID       string
	LeadName     string
	Channel      models.Channel
	Content      string
	Phone        string
	LeadKindHint models.LeadKind
	TenantID     string
}

// defaultTenantID is used when a caller doesn't scope a request to a
// tenant, matching this deployment's single-tenant default.
const defaultTenantID = "default"

// BehavioralMemory is the per-lead response-latency and preferred-channel
// store that recordBehavior updates on every inbound turn. No workflow
// reads it; nurture-sequence touchpoint timing does not consult it.
type BehavioralMemory interface {
	GetProfile(tenantID, leadID string) (*models.BehavioralProfile, error)
	UpsertProfile(tenantID string, profile *models.BehavioralProfile) error
}

// ToneSource supplies a tenant's configured default outbound tone. It is
// copied onto a session at a bot switch only when the new workflow's
// initial state carries no tone.
type ToneSource interface {
	GetBrandTone(tenantID string) (string, error)
}

// EscalationSource gates whether a workflow's drafted plan auto-sends or
// is held for a human agent, with a per-lead override over the tenant
// default.
type EscalationSource interface {
	GetGlobalConfig(tenantID string) (*models.EscalationGlobalConfig, error)
	GetLeadConfig(leadID string) (*models.EscalationLeadConfig, error)
}

// Result is handleInbound's output: the plan, a read-only session
// snapshot, and the events this call emitted.
type Result struct {
	Plan    models.OutboundPlan
	Session *models.Session
	Events  []models.Event
}

// Orchestrator wires the process-wide singletons (§5: Session Store,
// Compliance Gate, Event emitter) to the bot workflow registry.
type Orchestrator struct {
	Sessions     *session.Store
	Compliance   *compliance.Gate
	CRM          crm.Client
	Workflows    workflows.Registry
	Deps         workflows.Deps
	Emitter      *events.Emitter
	Config       config.Config
	RuleEngine   *rules.RuleEngine
	ContentRules []*models.Rule
	Memory       BehavioralMemory
	Tone         ToneSource
	Escalation   EscalationSource
}

// New builds an Orchestrator from its collaborators. A bot's drafted
// response always passes through the content rule engine before it is
// eligible to be dispatched, regardless of channel. Memory, Tone, and
// Escalation are optional: a nil value disables that step rather than
// failing the inbound path (§4.5 soft-failure semantics).
func New(cfg config.Config, sessions *session.Store, gate *compliance.Gate, crmClient crm.Client, registry workflows.Registry, deps workflows.Deps, emitter *events.Emitter) *Orchestrator {
	return &Orchestrator{
		Sessions:     sessions,
		Compliance:   gate,
		CRM:          crmClient,
		Workflows:    registry,
		Deps:         deps,
		Emitter:      emitter,
		Config:       cfg,
		RuleEngine:   rules.NewRuleEngine(),
		ContentRules: defaultContentRules(),
	}
}

// WithMemory wires the behavioral-profile store.
func (o *Orchestrator) WithMemory(m BehavioralMemory) *Orchestrator {
	o.Memory = m
	return o
}

// WithTone wires the per-tenant default tone source.
func (o *Orchestrator) WithTone(t ToneSource) *Orchestrator {
	o.Tone = t
	return o
}

// WithEscalation wires the escalation gate.
func (o *Orchestrator) WithEscalation(e EscalationSource) *Orchestrator {
	o.Escalation = e
	return o
}

// defaultContentRules builds the Fair Housing content policies as active
// models.Rule entries, used when no tenant-specific rule set is loaded
// from storage.
func defaultContentRules() []*models.Rule {
	out := make([]*models.Rule, 0, len(rules.DefaultPolicies()))
	for _, policy := range rules.DefaultPolicies() {
		patterns := rules.DefaultPatterns()[policy.Type]
		if len(patterns) == 0 {
			continue
		}
		action := "flag"
		switch policy.Severity {
		case rules.SeverityCritical:
			action = "block"
		case rules.SeverityHigh:
			action = "auto_correct"
		}
		for i, pattern := range patterns {
			out = append(out, &models.Rule{
				ID:       string(policy.Type) + "-" + strconv.Itoa(i),
				Name:     policy.Name,
				Type:     string(policy.Type),
				Pattern:  pattern,
				Action:   action,
				IsActive: true,
			})
		}
	}
	return out
}

// HandleInbound implements the §4.6 ten-step sequence.
func (o *Orchestrator) HandleInbound(ctx context.Context, req Request) (Result, error) {
	if req.LeadID == "" || req.Content == "" {
		return Result{}, ErrMalformedInput
	}

	var recorded []models.Event
	emit := func(kind models.EventKind, leadID string, payload map[string]interface{}) {
		recorded = append(recorded, models.Event{Kind: kind, LeadID: leadID, Timestamp: time.Now(), Payload: payload})
		o.Emitter.Publish(kind, leadID, payload)
	}

	// Step 1: the Compliance Gate sees a STOP before any workflow does.
	if req.Channel == models.ChannelSMS {
		result := o.Compliance.ProcessInbound(req.Phone, req.Content)
		if result.Action == "opt-out-processed" {
			o.Sessions.Update(req.LeadID, func(s *models.Session) {
				s.LastInboundAt = time.Now()
			})
			emit(models.EventSMSOptOut, req.LeadID, map[string]interface{}{"phone": req.Phone})
			return Result{
				Plan:   models.OutboundPlan{Text: "You've been unsubscribed and won't receive further messages."},
				Events: recorded,
			}, nil
		}
	}

	// Step 2: acquire or create the session.
	sess := o.Sessions.GetOrCreate(req.LeadID, seedFromRequest(req))

	tenantID := req.TenantID
	if tenantID == "" {
		tenantID = defaultTenantID
	}

	var plan models.OutboundPlan
	existed := o.Sessions.Update(req.LeadID, func(s *models.Session) {
		now := time.Now()

		// Step 3: append the inbound, tagged with its detected language.
		s.ConversationHistory = append(s.ConversationHistory, models.ConversationTurn{
			Role: models.RoleUser, Content: req.Content, Language: intake.DetectLanguage(req.Content), Timestamp: now,
		})
		s.LastInboundAt = now

		// Step 4: the first message seeds the baseline from a full Intent
		// Decoder pass (§4.7); every later message applies the Real-Time
		// Intent Updater's incremental delta on top of that baseline.
		var frsTotal, pcsTotal float64
		var newClassification models.Classification
		if s.LastScoreSnapshot == nil {
			if profile, err := workflows.AnalyzeIntent(o.Deps, s); err == nil {
				frsTotal, pcsTotal, newClassification = profile.FRS.Total, profile.PCS.Total, profile.Classification
			} else {
				newClassification = o.Deps.Classifier.Classify(0)
			}
		} else {
			update := rtintent.Update(s, req.Content)
			frsTotal, pcsTotal = rtintent.ApplyDelta(s, update)
			newClassification = o.Deps.Classifier.Classify(frsTotal)
		}
		if s.LastScoreSnapshot != nil && s.LastScoreSnapshot.Classification != newClassification {
			s.AppendEmotionalTransition(models.EmotionalTransition{
				From: s.LastScoreSnapshot.Classification, To: newClassification, At: now,
			})
		}
		s.AppendScoreSnapshot(models.ScoreSnapshot{
			FRSTotal: frsTotal, PCSTotal: pcsTotal,
			Classification: newClassification,
			At:             now.UnixNano(),
		})
		if s.LastScoreSnapshot == nil {
			s.LastScoreSnapshot = &models.IntentProfile{}
		}
		s.LastScoreSnapshot.FRS.Total = frsTotal
		s.LastScoreSnapshot.PCS.Total = pcsTotal
		s.LastScoreSnapshot.Classification = newClassification

		// Behavioral memory: record this turn's response latency and
		// preferred channel, and carry forward any newly detected stall as
		// a remembered objection (§4.5 "behavioural profile").
		o.recordBehavior(tenantID, s, req, now)

		// Step 5: select the workflow.
		targetKind := o.selectWorkflow(s, req.LeadKindHint)
		wf, ok := o.Workflows[targetKind]
		if !ok {
			plan = models.OutboundPlan{Text: "Thanks for your message — I'll follow up shortly."}
			return
		}
		if s.CurrentBotKind != targetKind {
			s.CurrentBotKind = targetKind
			s.WorkflowState = wf.InitialState()
			if o.Tone != nil && s.WorkflowState.Tone == "" {
				if tone, err := o.Tone.GetBrandTone(tenantID); err == nil {
					s.WorkflowState.Tone = tone
				}
			}
			emit(models.EventBotSwitched, s.LeadID, map[string]interface{}{"to": string(targetKind)})
		}

		// Step 6: run the workflow, then pass its drafted text through the
		// content compliance engine before anything downstream sees it.
		plan = wf.Handle(ctx, o.Deps, s, req.Content)
		if plan.Text != "" {
			validation := o.RuleEngine.ValidateOutput(plan.Text, o.ContentRules)
			switch {
			case validation.Blocked:
				emit(models.EventContentBlocked, s.LeadID, map[string]interface{}{"reason": validation.Explanation})
				plan.Text = "Thanks for your message — a licensed agent will follow up with you directly."
			case len(validation.Violations) > 0:
				emit(models.EventContentCorrected, s.LeadID, map[string]interface{}{"reason": validation.Explanation})
				plan.Text = validation.CorrectedText
			}
		}

		// Handoff semantics (§4.6): reset to the new workflow's initial
		// state, never its terminal.
		if plan.HandoffTo != "" && plan.HandoffTo != s.CurrentBotKind {
			from := s.CurrentBotKind
			if next, ok := o.Workflows[plan.HandoffTo]; ok {
				s.CurrentBotKind = plan.HandoffTo
				s.WorkflowState = next.InitialState()
			}
			if o.CRM != nil && s.LeadID != "" {
				_ = o.CRM.AddTags(ctx, s.LeadID, []string{"handoff:" + string(plan.HandoffTo)})
			}
			emit(models.EventHandoffTriggered, s.LeadID, map[string]interface{}{
				"from": string(from), "to": string(plan.HandoffTo),
			})
		}

		// Step 7: route outbound side effects through the Compliance Gate.
		plan = o.dispatchOutbound(ctx, tenantID, req, s, plan, emit)
	})
	if !existed {
		// The session expired between GetOrCreate and Update (§7
		// SessionEvicted): the next inbound transparently starts fresh.
		emit(models.EventSessionEvicted, req.LeadID, nil)
		sess = o.Sessions.GetOrCreate(req.LeadID, seedFromRequest(req))
		o.Sessions.Update(req.LeadID, func(s *models.Session) {
			plan = models.OutboundPlan{Text: "Thanks for reaching out — let's pick this up."}
		})
	}

	emit(models.EventInboundReceived, req.LeadID, map[string]interface{}{"channel": string(req.Channel)})

	snapshot, _ := o.Sessions.Snapshot(req.LeadID)
	if snapshot == nil {
		snapshot = sess
	}
	return Result{Plan: plan, Session: snapshot, Events: recorded}, nil
}

func seedFromRequest(req Request) session.Seed {
	return session.Seed{LeadName: req.LeadName, LeadKind: req.LeadKindHint, Phone: req.Phone}
}

// selectWorkflow implements the §4.6 selection rule: explicit hint, then
// the session's current bot, then a confidence-based default.
func (o *Orchestrator) selectWorkflow(s *models.Session, hint models.LeadKind) models.BotKind {
	switch hint {
	case models.LeadKindBuyer:
		return models.BotBuyerQualify
	case models.LeadKindSeller:
		return models.BotSellerQualify
	}
	if s.CurrentBotKind != "" {
		return s.CurrentBotKind
	}

	profile, err := workflows.AnalyzeIntent(o.Deps, s)
	if err != nil {
		return models.BotNurtureSequence
	}
	switch {
	case profile.BuyerConfidence >= o.Config.HandoffThresholds.ConfidenceMin && profile.BuyerConfidence > profile.SellerConfidence:
		return models.BotBuyerQualify
	case profile.SellerConfidence >= o.Config.HandoffThresholds.ConfidenceMin && profile.SellerConfidence > profile.BuyerConfidence:
		return models.BotSellerQualify
	default:
		return models.BotNurtureSequence
	}
}

// recordBehavior maintains a lead's behavioral profile: a running
// average of its response latency (each new latency averaged with the
// stored MedianResponseSeconds) and its most recently used channel,
// plus any stall pattern detected this turn as a remembered past
// objection. Storage failures are soft: a turn is never held up on the
// memory store.
func (o *Orchestrator) recordBehavior(tenantID string, s *models.Session, req Request, now time.Time) {
	if o.Memory == nil {
		return
	}

	profile, err := o.Memory.GetProfile(tenantID, s.LeadID)
	if err != nil || profile == nil {
		profile = &models.BehavioralProfile{ID: uuid.NewString(), LeadID: s.LeadID, CreatedAt: now}
	}
	profile.PreferredChannel = req.Channel

	if !s.LastOutboundAt.IsZero() && now.After(s.LastOutboundAt) {
		latency := now.Sub(s.LastOutboundAt).Seconds()
		if profile.MedianResponseSeconds == 0 {
			profile.MedianResponseSeconds = latency
		} else {
			profile.MedianResponseSeconds = (profile.MedianResponseSeconds + latency) / 2
		}
	}

	if stall := workflows.DetectStall(s); stall.Kind != models.StallNone {
		profile.PastObjections = appendUnique(profile.PastObjections, string(stall.Kind))
	}

	profile.UpdatedAt = now
	_ = o.Memory.UpsertProfile(tenantID, profile)
}

func appendUnique(list []string, item string) []string {
	for _, v := range list {
		if v == item {
			return list
		}
	}
	return append(list, item)
}

// autoSendAllowed consults the escalation gate: a per-lead override takes
// precedence over the tenant-wide default. A plan that clears neither the
// auto-send flag nor the configured confidence threshold is held for a
// human agent rather than sent (§4.5 escalation semantics).
func (o *Orchestrator) autoSendAllowed(tenantID string, s *models.Session) bool {
	threshold := 0.8
	autoSend := false

	if global, err := o.Escalation.GetGlobalConfig(tenantID); err == nil && global != nil {
		autoSend = global.AutoSendEnabled
		threshold = global.ConfidenceThreshold
	}
	if lead, err := o.Escalation.GetLeadConfig(s.LeadID); err == nil && lead != nil {
		autoSend = lead.AutoSendEnabled
		if lead.ConfidenceThreshold != nil {
			threshold = *lead.ConfidenceThreshold
		}
	}
	if autoSend {
		return true
	}
	if s.LastScoreSnapshot == nil {
		return false
	}
	return s.LastScoreSnapshot.FRS.Total/100 >= threshold
}

// dispatchOutbound implements step 7: every SMS outbound passes through
// validateSend/recordSend; email and other channels pass through
// unchecked. The plan's primary text is treated as the turn's one
// send-message attempt; side-effect actions already carried in the plan
// (trigger-handoff, generate-cma, schedule-followup, tag-contact) are
// passed through as-is since they are not sends.
func (o *Orchestrator) dispatchOutbound(ctx context.Context, tenantID string, req Request, s *models.Session, plan models.OutboundPlan, emit func(models.EventKind, string, map[string]interface{})) models.OutboundPlan {
	if plan.Text == "" {
		return plan
	}

	if o.Escalation != nil && !o.autoSendAllowed(tenantID, s) {
		held := models.OutboundAction{Kind: models.ActionKindSendSMS, Status: models.ActionStatusSkipped, Content: plan.Text}
		if req.Channel == models.ChannelEmail {
			held.Kind = models.ActionKindSendEmail
		}
		plan.Actions = append(plan.Actions, held)
		emit(models.EventEscalationHeld, s.LeadID, map[string]interface{}{"channel": string(req.Channel)})
		return plan
	}

	if o.CRM == nil {
		return plan
	}

	sendAction := models.OutboundAction{Kind: models.ActionKindSendSMS, Status: models.ActionStatusPending, Content: plan.Text}
	if req.Channel != models.ChannelSMS {
		if req.Channel == models.ChannelEmail {
			sendAction.Kind = models.ActionKindSendEmail
		}
		target := req.Phone
		if target == "" {
			target = s.LeadID
		}
		result, err := o.CRM.SendMessage(ctx, target, plan.Text, req.Channel)
		if err != nil || !result.Success {
			sendAction.Status = models.ActionStatusFailed
			emit(models.EventExternalDegraded, s.LeadID, map[string]interface{}{"collaborator": "crm"})
		} else {
			sendAction.Status = models.ActionStatusSent
			s.LastOutboundAt = time.Now()
			emit(models.EventOutboundSent, s.LeadID, map[string]interface{}{"channel": string(req.Channel)})
		}
		plan.Actions = append(plan.Actions, sendAction)
		return plan
	}

	validation := o.Compliance.ValidateSend(req.Phone, plan.Text)
	if !validation.Allowed {
		sendAction.Status = models.ActionStatusBlocked
		sendAction.DenyReason = validation.Reason
		plan.Actions = append(plan.Actions, sendAction)
		emit(models.EventSMSBlocked, s.LeadID, map[string]interface{}{"reason": string(validation.Reason)})
		return plan
	}

	result, err := o.CRM.SendMessage(ctx, req.Phone, plan.Text, models.ChannelSMS)
	success := err == nil && result.Success
	o.Compliance.RecordSend(req.Phone, plan.Text, success)
	if success {
		sendAction.Status = models.ActionStatusSent
		s.LastOutboundAt = time.Now()
		emit(models.EventOutboundSent, s.LeadID, map[string]interface{}{"channel": "sms"})
	} else {
		sendAction.Status = models.ActionStatusFailed
		emit(models.EventExternalDegraded, s.LeadID, map[string]interface{}{"collaborator": "crm"})
	}
	plan.Actions = append(plan.Actions, sendAction)
	return plan
}
