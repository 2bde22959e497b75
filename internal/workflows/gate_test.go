package workflows

import (
	"testing"

	"realestate-lead-orchestrator/internal/config"
	"realestate-lead-orchestrator/internal/models"
)

func TestEvaluateQualificationGate_InclusiveBoundaryPasses(t *testing.T) {
	thresholds := config.Default().HandoffThresholds
	profile := models.IntentProfile{FRS: models.FRS{Total: 60}, BuyerConfidence: 0.70}
	decision := EvaluateQualificationGate(profile, thresholds)
	if !decision.Pass {
		t.Error("expected pass at exactly FRS=60, confidence=0.70 (inclusive thresholds)")
	}
}

func TestEvaluateQualificationGate_JustBelowFRSFails(t *testing.T) {
	thresholds := config.Default().HandoffThresholds
	profile := models.IntentProfile{FRS: models.FRS{Total: 59.99}, BuyerConfidence: 0.90}
	decision := EvaluateQualificationGate(profile, thresholds)
	if decision.Pass {
		t.Error("expected failure at FRS=59.99")
	}
}

func TestEvaluateQualificationGate_HandoffTargetPrefersHigherConfidence(t *testing.T) {
	thresholds := config.Default().HandoffThresholds
	profile := models.IntentProfile{FRS: models.FRS{Total: 80}, BuyerConfidence: 0.5, SellerConfidence: 0.9}
	decision := EvaluateQualificationGate(profile, thresholds)
	if decision.HandoffTarget != models.BotSellerQualify {
		t.Errorf("handoff target = %v, want seller-qualify", decision.HandoffTarget)
	}
}

func TestEvaluateQualificationGate_FallsBackToNurtureWhenAmbiguous(t *testing.T) {
	thresholds := config.Default().HandoffThresholds
	profile := models.IntentProfile{FRS: models.FRS{Total: 10}, BuyerConfidence: 0.1, SellerConfidence: 0.1}
	decision := EvaluateQualificationGate(profile, thresholds)
	if decision.HandoffTarget != models.BotNurtureSequence {
		t.Errorf("handoff target = %v, want nurture-sequence fallback", decision.HandoffTarget)
	}
	if decision.Pass {
		t.Error("expected failure")
	}
}
