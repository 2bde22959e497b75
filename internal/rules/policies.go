package rules

// PolicyType represents the type of compliance policy rule.
type PolicyType string

const (
	// NoSteeringLanguage prevents steering a lead toward or away from a
	// neighborhood based on a protected characteristic.
	NoSteeringLanguage PolicyType = "no_steering_language"
	// NoProtectedClassReferences prevents referencing a protected class
	// (race, religion, familial status, disability, national origin, sex)
	// in outbound content.
	NoProtectedClassReferences PolicyType = "no_protected_class_references"
	// NoUnauthorizedGuarantees prevents unauthorized legal or financial
	// guarantees (loan approval, investment return, closing timeline).
	NoUnauthorizedGuarantees PolicyType = "no_unauthorized_guarantees"
	// ToneCompliance ensures responses match the configured brand tone.
	ToneCompliance PolicyType = "tone_compliance"
	// StallConfirmation validates a detected stall kind against its own
	// regex patterns (separate from the Stall Detector's keyword tables),
	// for audit purposes.
	StallConfirmation PolicyType = "stall_confirmation"
)

// Severity represents the severity level of a policy violation.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// PolicyMetadata contains metadata about a policy.
type PolicyMetadata struct {
	Type        PolicyType
	Name        string
	Description string
	Severity    Severity
	Priority    int // Lower number = higher priority
}

// DefaultPolicies returns default policy configurations.
func DefaultPolicies() []PolicyMetadata {
	return []PolicyMetadata{
		{
			Type:        NoProtectedClassReferences,
			Name:        "No Protected Class References",
			Description: "Prevents referencing race, religion, familial status, disability, national origin, or sex in outbound content",
			Severity:    SeverityCritical,
			Priority:    1,
		},
		{
			Type:        NoSteeringLanguage,
			Name:        "No Steering Language",
			Description: "Prevents steering a lead toward or away from a neighborhood on a protected basis",
			Severity:    SeverityCritical,
			Priority:    2,
		},
		{
			Type:        NoUnauthorizedGuarantees,
			Name:        "No Unauthorized Guarantees",
			Description: "Prevents unauthorized legal or financial guarantees about loans, returns, or closing timelines",
			Severity:    SeverityHigh,
			Priority:    3,
		},
		{
			Type:        ToneCompliance,
			Name:        "Tone Compliance",
			Description: "Ensures responses match brand tone guidelines",
			Severity:    SeverityMedium,
			Priority:    4,
		},
		{
			Type:        StallConfirmation,
			Name:        "Stall Detection Confirmation",
			Description: "Validates a detected stall kind against keyword patterns",
			Severity:    SeverityLow,
			Priority:    5,
		},
	}
}

// DefaultPatterns returns default regex/keyword patterns for each policy type.
func DefaultPatterns() map[PolicyType][]string {
	return map[PolicyType][]string{
		NoProtectedClassReferences: {
			`(?i)\b(families with kids|no children|christian|muslim|jewish)\b`,
			`(?i)\b(wheelchair|disabled|able-bodied)\b`,
			`(?i)\b(race|ethnicity|national origin)\b`,
		},
		NoSteeringLanguage: {
			`(?i)\b(people like you|that neighborhood isn't for|you'd fit in better)\b`,
			`(?i)\b(good schools for your kind|safer area for)\b`,
		},
		NoUnauthorizedGuarantees: {
			`(?i)\b(guaranteed approval|guaranteed loan|we promise you'll qualify)\b`,
			`(?i)\b(guaranteed return|guaranteed appreciation|guaranteed closing date)\b`,
		},
		ToneCompliance: {
			`(?i)\b(crazy|insane|ridiculous|stupid|dumb)\b`,
		},
		StallConfirmation: {
			`(?i)\b(think about it|need time|let me consider)\b`,
			`(?i)\b(too expensive|price is high|can't afford)\b`,
			`(?i)\b(zestimate|redfin estimate|online value)\b`,
			`(?i)\b(busy|call you back|not a good time)\b`,
		},
	}
}

// CorrectionTemplates returns predefined correction templates per policy type.
func CorrectionTemplates() map[PolicyType]string {
	return map[PolicyType]string{
		NoProtectedClassReferences: "I can share information about the property and area, but I'm not able to speak to that.",
		NoSteeringLanguage:         "I'd be glad to share listings across any neighborhoods you're interested in.",
		NoUnauthorizedGuarantees:   "I can't guarantee approval or terms — a lender or attorney can walk you through specifics.",
		ToneCompliance:             "Let me rephrase that in a more professional manner.",
		StallConfirmation:          "", // confirmation only, no correction
	}
}

// GetPolicyPriority returns the priority order for rule evaluation.
// Lower number = higher priority (evaluated first).
func GetPolicyPriority(policyType PolicyType) int {
	for _, p := range DefaultPolicies() {
		if p.Type == policyType {
			return p.Priority
		}
	}
	return 999
}
