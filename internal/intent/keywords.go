package intent

import "regexp"

// markerSet is one weighted keyword group feeding the motivation
// sub-score. Life-event markers carry the heaviest weight; curiosity-only
// markers are negative.
type markerSet struct {
	name     string
	keywords []string
	weight   float64
}

var motivationMarkerSets = []markerSet{
	{name: "life-event", keywords: []string{"divorce", "relocation", "relocating", "job loss", "lost my job", "death", "passed away", "inherited"}, weight: 30},
	{name: "urgency", keywords: []string{"asap", "immediately", "must sell", "must move", "need to sell fast", "need to sell", "need to close", "fast"}, weight: 20},
	{name: "commitment", keywords: []string{"definitely", "ready", "committed", "ready to sell", "ready to buy", "decision maker"}, weight: 15},
	{name: "curiosity-only", keywords: []string{"just curious", "just browsing", "browsing", "not serious", "just looking"}, weight: -20},
}

// buyerKeywords and sellerKeywords feed the intent-kind confidence scores.
var buyerKeywords = []string{
	"looking to buy", "want to purchase", "pre-approved", "preapproved",
	"down payment", "mortgage", "showing", "tour the house", "financing",
	"first time buyer", "first-time buyer",
}

var sellerKeywords = []string{
	"sell my house", "selling my home", "list my property", "listing",
	"my house is worth", "what's my home worth", "thinking of selling",
	"put my house on the market",
}

// conditionAcknowledgementMarkers indicate a seller naming a real defect.
var conditionAcknowledgementMarkers = []string{
	"needs work", "needs repair", "roof is old", "foundation", "outdated",
	"needs updating", "as-is", "as is", "needs renovation", "fixer",
}

// conditionDenialMarkers is the "perfect condition absent evidence" penalty.
// "move-in ready" is deliberately excluded: it is ordinary real-estate
// phrasing, not an unsubstantiated claim.
var conditionDenialMarkers = []string{
	"perfect condition", "nothing wrong", "flawless",
}

var comparableSalesMarkers = []string{
	"comparable sale", "comps", "sold for", "recently sold",
}

var zestimateMarkers = []string{
	"zestimate", "redfin estimate", "online estimate", "automated valuation",
}

var budgetFigureRe = regexp.MustCompile(`\$\s?\d[\d,]*`)

var domainNouns = []string{"price", "bedroom", "neighborhood", "school", "financing", "closing"}

var objectionMarkers = []string{
	"too expensive", "too high", "can't afford", "not sure about", "worried about", "concerned about",
}

var agreementMarkers = []string{
	"makes sense", "i understand", "ok that works", "fair enough", "that works", "sounds good",
}

var callAcceptanceMarkers = []string{
	"yes let's schedule", "sure, call me", "call me", "let's do a call", "i'll take the call", "schedule the tour", "schedule a showing", "let's schedule a call",
}

var callDeclineMarkers = []string{
	"no calls", "don't call", "text only", "prefer text", "rather not call",
}

// durationPattern maps a regex fragment to the day count it represents.
// The decoder's parseDurations compiles its own equivalent patterns and
// does not read durationPatterns.
type durationPattern struct {
	re   *regexp.Regexp
	days int
}

var durationPatterns = []durationPattern{
	{re: regexp.MustCompile(`(?i)\b(this week|next week|few days|couple days)\b`), days: 7},
	{re: regexp.MustCompile(`(?i)\b(\d+)\s*days?\b`), days: 0}, // resolved dynamically
	{re: regexp.MustCompile(`(?i)\b(\d+)\s*weeks?\b`), days: 0},
	{re: regexp.MustCompile(`(?i)\b(\d+)\s*months?\b`), days: 0},
	{re: regexp.MustCompile(`(?i)\bthis month\b`), days: 30},
	{re: regexp.MustCompile(`(?i)\bnext month\b`), days: 60},
	{re: regexp.MustCompile(`(?i)\b(\d+)\s*years?\b`), days: 0},
}
