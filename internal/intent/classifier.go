package intent

import (
	"realestate-lead-orchestrator/internal/config"
	"realestate-lead-orchestrator/internal/models"
)

// ThresholdClassifier classifies an FRS total against configured
// thresholds (§6). It is the only Classifier implementation; tests may
// supply their own for edge-case threshold values.
type ThresholdClassifier struct {
	Thresholds config.ClassificationThresholds
}

// Classify returns Hot/Warm/Lukewarm/Cold for the given FRS total.
func (c ThresholdClassifier) Classify(frsTotal float64) models.Classification {
	switch {
	case frsTotal >= c.Thresholds.Hot:
		return models.ClassificationHot
	case frsTotal >= c.Thresholds.Warm:
		return models.ClassificationWarm
	case frsTotal >= c.Thresholds.Lukewarm:
		return models.ClassificationLukewarm
	default:
		return models.ClassificationCold
	}
}
