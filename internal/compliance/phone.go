package compliance

import (
	"regexp"
	"strings"
)

var nonDigitRe = regexp.MustCompile(`\D`)

// NormalizePhone reduces a phone number to E.164, defaulting to the US/
// Canada country code when the number carries no country code of its own.
// This mirrors the lenient normalisation real inbound SMS providers
// require: callers hand us whatever formatting the carrier gave them.
func NormalizePhone(raw string) string {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(raw, "+") {
		return "+" + digits
	}
	switch len(digits) {
	case 10:
		return "+1" + digits
	case 11:
		if digits[0] == '1' {
			return "+" + digits
		}
		return "+1" + digits
	default:
		return "+" + digits
	}
}
