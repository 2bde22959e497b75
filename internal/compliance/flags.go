package compliance

import "strings"

// aggressiveLanguageTerms and financialContentTerms are advisory content
// flags (§12 supplement, grounded on the original compliance-flags check):
// they never block anything, they only annotate processInbound output
// (ProcessInboundResult.ComplianceFlags) so a human reviewer can see why a
// message might warrant a closer look. validateSend results carry no
// content flags.
var aggressiveLanguageTerms = []string{
	"must", "urgent", "final notice", "act now", "limited time",
}

var financialContentTerms = []string{
	"mortgage", "credit", "debt", "loan", "payment",
}

// checkContentFlags returns the advisory flags present in content. An
// empty result means nothing of note was found.
func checkContentFlags(content string) []string {
	upper := strings.ToUpper(content)
	var flags []string
	for _, term := range aggressiveLanguageTerms {
		if strings.Contains(upper, strings.ToUpper(term)) {
			flags = append(flags, "aggressive-language")
			break
		}
	}
	for _, term := range financialContentTerms {
		if strings.Contains(upper, strings.ToUpper(term)) {
			flags = append(flags, "financial-content")
			break
		}
	}
	return flags
}
