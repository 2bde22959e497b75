// Package config loads process-wide configuration once at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// FRSWeights are the weights applied to the four Financial Readiness
// sub-scores. They must sum to 1.0.
type FRSWeights struct {
	Motivation float64
	Timeline   float64
	Condition  float64
	Price      float64
}

// ClassificationThresholds are the FRS cut points for lead temperature.
type ClassificationThresholds struct {
	Hot      float64
	Warm     float64
	Lukewarm float64
}

// HandoffThresholds gate the outbound-prospecting qualification gate.
type HandoffThresholds struct {
	FRSMin        float64
	ConfidenceMin float64
}

// BusinessHours is the local hour range in which outbound SMS carries no
// advisory warning.
type BusinessHours struct {
	Start int
	End   int
}

// Config is the process-wide, read-once-at-startup configuration.
type Config struct {
	SessionTTL               time.Duration
	DailySMSLimit            int
	MonthlySMSLimit          int
	BusinessHours            BusinessHours
	StopKeywords             map[string]bool
	FRSWeights               FRSWeights
	ClassificationThresholds ClassificationThresholds
	HandoffThresholds        HandoffThresholds
	LLMDeadline              time.Duration
	CRMDeadline              time.Duration
	CMADeadline              time.Duration
	SessionSweepInterval     time.Duration
	OptOutRetention          time.Duration
}

// Default returns the configuration defaults from §6 of the spec.
func Default() Config {
	return Config{
		SessionTTL:      24 * time.Hour,
		DailySMSLimit:   3,
		MonthlySMSLimit: 20,
		BusinessHours:   BusinessHours{Start: 8, End: 21},
		StopKeywords: toSet([]string{
			"STOP", "UNSUBSCRIBE", "QUIT", "CANCEL", "END",
			"REMOVE", "HALT", "OPT-OUT", "OPTOUT",
		}),
		FRSWeights: FRSWeights{
			Motivation: 0.35,
			Timeline:   0.30,
			Condition:  0.20,
			Price:      0.15,
		},
		ClassificationThresholds: ClassificationThresholds{
			Hot:      75,
			Warm:     50,
			Lukewarm: 25,
		},
		HandoffThresholds: HandoffThresholds{
			FRSMin:        60,
			ConfidenceMin: 0.70,
		},
		LLMDeadline:          10 * time.Second,
		CRMDeadline:          5 * time.Second,
		CMADeadline:          30 * time.Second,
		SessionSweepInterval: 5 * time.Minute,
		OptOutRetention:      2 * 365 * 24 * time.Hour,
	}
}

// Load builds configuration from environment variables, falling back to
// Default() for anything unset. It returns an error on an
// InternalInvariantViolation (FRS weights not summing to 1.0, non-positive
// SMS limits) because that is a startup-fatal condition per the
// error-handling design — never something to clamp and continue past.
func Load() (Config, error) {
	cfg := Default()

	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}
	if v := os.Getenv("DAILY_SMS_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid DAILY_SMS_LIMIT: %w", err)
		}
		cfg.DailySMSLimit = n
	}
	if v := os.Getenv("MONTHLY_SMS_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid MONTHLY_SMS_LIMIT: %w", err)
		}
		cfg.MonthlySMSLimit = n
	}
	if v := os.Getenv("STOP_KEYWORDS"); v != "" {
		cfg.StopKeywords = toSet(strings.Split(v, ","))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the InternalInvariantViolation conditions that are
// fatal at startup (§7).
func (c Config) Validate() error {
	sum := c.FRSWeights.Motivation + c.FRSWeights.Timeline + c.FRSWeights.Condition + c.FRSWeights.Price
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("internal invariant violation: FRS weights sum to %.4f, want 1.0", sum)
	}
	if c.DailySMSLimit <= 0 || c.MonthlySMSLimit <= 0 {
		return fmt.Errorf("internal invariant violation: SMS limits must be positive")
	}
	return nil
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w != "" {
			set[w] = true
		}
	}
	return set
}
