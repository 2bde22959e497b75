package workflows

import (
	"fmt"

	"realestate-lead-orchestrator/internal/config"
	"realestate-lead-orchestrator/internal/models"
)

// GateDecision is the qualification gate's verdict (§4.5 outbound-
// prospecting). The orchestrator's workflow-selection default does not
// use it; selectWorkflow compares the confidences itself.
type GateDecision struct {
	Pass          bool
	Confidence    float64
	HandoffTarget models.BotKind
	Reason        string
}

// EvaluateQualificationGate implements the FRS ≥ frsMin && max(confidences)
// ≥ confidenceMin qualification gate. Thresholds are inclusive (§8
// boundary behaviour: FRS=60, confidence=0.70 passes).
func EvaluateQualificationGate(profile models.IntentProfile, thresholds config.HandoffThresholds) GateDecision {
	confidence := profile.BuyerConfidence
	if profile.SellerConfidence > confidence {
		confidence = profile.SellerConfidence
	}

	frsOK := profile.FRS.Total >= thresholds.FRSMin
	confOK := confidence >= thresholds.ConfidenceMin
	target := selectHandoffTarget(profile.BuyerConfidence, profile.SellerConfidence, thresholds.ConfidenceMin)

	if frsOK && confOK {
		return GateDecision{Pass: true, Confidence: confidence, HandoffTarget: target}
	}

	return GateDecision{
		Pass:          false,
		Confidence:    confidence,
		HandoffTarget: target,
		Reason:        buildDisqualifyReason(profile.FRS.Total, confidence, thresholds),
	}
}

func selectHandoffTarget(buyerConf, sellerConf, confThreshold float64) models.BotKind {
	if buyerConf >= confThreshold && buyerConf >= sellerConf {
		return models.BotBuyerQualify
	}
	if sellerConf >= confThreshold && sellerConf > buyerConf {
		return models.BotSellerQualify
	}
	return models.BotNurtureSequence
}

func buildDisqualifyReason(frsScore, confidence float64, thresholds config.HandoffThresholds) string {
	reason := ""
	if frsScore < thresholds.FRSMin {
		reason += fmt.Sprintf("FRS %.1f < %.1f", frsScore, thresholds.FRSMin)
	}
	if confidence < thresholds.ConfidenceMin {
		if reason != "" {
			reason += "; "
		}
		reason += fmt.Sprintf("intent confidence %.2f < %.2f", confidence, thresholds.ConfidenceMin)
	}
	if reason == "" {
		reason = "below thresholds"
	}
	return reason
}
