package intent

import (
	"testing"
	"time"

	"realestate-lead-orchestrator/internal/config"
	"realestate-lead-orchestrator/internal/models"
)

func classifier() ThresholdClassifier {
	return ThresholdClassifier{Thresholds: config.Default().ClassificationThresholds}
}

func weights() config.FRSWeights {
	return config.Default().FRSWeights
}

func userTurn(content string, at time.Time) models.ConversationTurn {
	return models.ConversationTurn{Role: models.RoleUser, Content: content, Timestamp: at}
}

func TestAnalyze_EmptyHistoryIsColdAllZero(t *testing.T) {
	profile, err := Analyze("lead-1", nil, models.LeadKindSeller, weights(), classifier())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Classification != models.ClassificationCold {
		t.Errorf("classification = %v, want Cold", profile.Classification)
	}
	if profile.FRS.Total != 0 {
		t.Errorf("frs.total = %v, want 0", profile.FRS.Total)
	}
}

func TestAnalyze_MalformedHistoryReturnsError(t *testing.T) {
	history := models.History{{Role: "", Content: "hello"}}
	_, err := Analyze("lead-1", history, models.LeadKindSeller, weights(), classifier())
	if err == nil {
		t.Fatal("expected error for malformed history, got nil")
	}
}

func TestAnalyze_FRSTotalMatchesWeightedFormula(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	history := models.History{
		userTurn("I need to sell my house fast, going through a divorce.", base),
		userTurn("We need to close in 60 days or less", base.Add(5*time.Minute)),
	}
	profile, err := Analyze("lead-2", history, models.LeadKindSeller, weights(), classifier())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := weights()
	want := profile.FRS.Motivation.Score*w.Motivation + profile.FRS.Timeline.Score*w.Timeline +
		profile.FRS.Condition.Score*w.Condition + profile.FRS.Price.Score*w.Price
	if diff := profile.FRS.Total - want; diff > 0.5 || diff < -0.5 {
		t.Errorf("frs.total = %v, want ~%v", profile.FRS.Total, want)
	}
	if profile.FRS.Total < 0 || profile.FRS.Total > 100 {
		t.Errorf("frs.total = %v out of [0,100]", profile.FRS.Total)
	}
}

// TestAnalyze_HotSellerQualificationInFourTurns is the four-turn scenario.
func TestAnalyze_HotSellerQualificationInFourTurns(t *testing.T) {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	history := models.History{
		userTurn("I need to sell my house fast, going through a divorce.", base),
		userTurn("We need to close in 60 days or less", base.Add(1*time.Minute)),
		userTurn("Yes I'm the sole decision maker", base.Add(2*time.Minute)),
		userTurn("The house is move-in ready", base.Add(3*time.Minute)),
	}
	profile, err := Analyze("lead-3", history, models.LeadKindSeller, weights(), classifier())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Classification != models.ClassificationHot {
		t.Errorf("classification = %v, want Hot (frs.total=%v)", profile.Classification, profile.FRS.Total)
	}
	if profile.FRS.Total < 75 {
		t.Errorf("frs.total = %v, want >= 75", profile.FRS.Total)
	}
}

// TestAnalyze_ColdBuyerDowngrade is scenario 5.
func TestAnalyze_ColdBuyerDowngrade(t *testing.T) {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	history := models.History{
		userTurn("Just browsing, not really looking.", base),
	}
	profile, err := Analyze("lead-5", history, models.LeadKindBuyer, weights(), classifier())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.FRS.Motivation.Score > 20 {
		t.Errorf("motivation = %v, want <= 20", profile.FRS.Motivation.Score)
	}
	if profile.PCS.Total > 30 {
		t.Errorf("pcs.total = %v, want <= 30", profile.PCS.Total)
	}
	if profile.Classification != models.ClassificationCold {
		t.Errorf("classification = %v, want Cold", profile.Classification)
	}
}

func TestAnalyze_ZestimateMentionDetected(t *testing.T) {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	history := models.History{
		userTurn("I saw the zestimate online and it seems low.", base),
	}
	profile, err := Analyze("lead-6", history, models.LeadKindSeller, weights(), classifier())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !profile.FRS.Price.ZestimateMentioned {
		t.Error("expected zestimate mention to be detected")
	}
}

func TestAnalyze_BuyerAndSellerConfidenceIndependent(t *testing.T) {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	history := models.History{
		userTurn("I'm pre-approved and looking for a mortgage, also thinking of selling my home.", base),
	}
	profile, err := Analyze("lead-7", history, models.LeadKindUnknown, weights(), classifier())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.BuyerConfidence <= 0 {
		t.Error("expected positive buyer confidence")
	}
	if profile.SellerConfidence <= 0 {
		t.Error("expected positive seller confidence")
	}
	if profile.BuyerConfidence < 0 || profile.BuyerConfidence > 1 || profile.SellerConfidence < 0 || profile.SellerConfidence > 1 {
		t.Error("confidences must be in [0,1]")
	}
}
