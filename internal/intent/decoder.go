// Package intent implements the Intent Decoder (§4.1): a pure,
// deterministic function from a lead's conversation history to an
// IntentProfile. Nothing in this package performs I/O or keeps state
// between calls.
package intent

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"realestate-lead-orchestrator/internal/config"
	"realestate-lead-orchestrator/internal/models"
)

// ErrMalformedHistory is returned when a history entry has no role or no
// content.
var ErrMalformedHistory = errors.New("intent: malformed history entry")

var questionRe = regexp.MustCompile(`\?`)

// Analyze implements analyze(leadID, history) → IntentProfile (§4.1).
// An empty history yields an all-zero profile classified Cold.
func Analyze(leadID string, history models.History, leadKind models.LeadKind, weights config.FRSWeights, cls Classifier) (models.IntentProfile, error) {
	for i, turn := range history {
		if turn.Role == "" || strings.TrimSpace(turn.Content) == "" {
			return models.IntentProfile{}, fmt.Errorf("%w: entry %d for lead %s", ErrMalformedHistory, i, leadID)
		}
	}
	if len(history) == 0 {
		return models.IntentProfile{
			Classification: models.ClassificationCold,
			NextBestAction: nextBestAction(models.ClassificationCold, models.FRS{}, models.PCS{}),
		}, nil
	}

	userTurns := history.UserMessages()

	motivation := scoreMotivation(userTurns)
	timeline := scoreTimeline(userTurns)
	condition := scoreCondition(userTurns, leadKind)
	price := scorePrice(userTurns)

	frsTotal := motivation.Score*weights.Motivation + timeline.Score*weights.Timeline +
		condition.Score*weights.Condition + price.Score*weights.Price
	frs := models.FRS{
		Total:      round2(frsTotal),
		Motivation: motivation,
		Timeline:   timeline,
		Condition:  condition,
		Price:      price,
	}

	pcs := scorePCS(history, userTurns)

	var markers []string
	markers = append(markers, motivation.DetectedMarkers...)

	buyerConf := keywordConfidence(userTurns, buyerKeywords)
	sellerConf := keywordConfidence(userTurns, sellerKeywords)

	classification := cls.Classify(frs.Total)
	if len(history) == 0 {
		classification = models.ClassificationCold
	}

	return models.IntentProfile{
		FRS:              frs,
		PCS:              pcs,
		Classification:   classification,
		BuyerConfidence:  buyerConf,
		SellerConfidence: sellerConf,
		NextBestAction:   nextBestAction(classification, frs, pcs),
		DetectedMarkers:  markers,
	}, nil
}

// Classifier maps an FRS total to a temperature classification. It is an
// interface so the decoder never hardcodes thresholds; callers supply the
// configured thresholds (§6).
type Classifier interface {
	Classify(frsTotal float64) models.Classification
}

func scoreMotivation(userTurns []models.ConversationTurn) models.MotivationProfile {
	var total float64
	var markers []string
	for _, set := range motivationMarkerSets {
		for _, turn := range userTurns {
			lower := strings.ToLower(turn.Content)
			for _, kw := range set.keywords {
				if strings.Contains(lower, kw) {
					total += set.weight
					markers = append(markers, kw)
				}
			}
		}
	}
	return models.MotivationProfile{
		Score:           clamp(total, 0, 100),
		DetectedMarkers: dedupe(markers),
	}
}

func scoreTimeline(userTurns []models.ConversationTurn) models.TimelineProfile {
	minDays := -1
	for _, turn := range userTurns {
		for _, d := range parseDurations(turn.Content) {
			if minDays == -1 || d < minDays {
				minDays = d
			}
		}
	}
	if minDays == -1 {
		return models.TimelineProfile{Score: 20}
	}
	var score float64
	switch {
	case minDays <= 30:
		score = 100
	case minDays <= 90:
		score = 80
	case minDays <= 180:
		score = 60
	case minDays <= 365:
		score = 40
	default:
		score = 20
	}
	return models.TimelineProfile{Score: score, MinDurationDays: minDays}
}

func parseDurations(text string) []int {
	var days []int
	lower := strings.ToLower(text)

	if regexp.MustCompile(`\b(this week|next week|few days|couple days)\b`).MatchString(lower) {
		days = append(days, 7)
	}
	if regexp.MustCompile(`\bthis month\b`).MatchString(lower) {
		days = append(days, 30)
	}
	if regexp.MustCompile(`\bnext month\b`).MatchString(lower) {
		days = append(days, 60)
	}
	for _, m := range regexp.MustCompile(`(\d+)\s*days?\b`).FindAllStringSubmatch(lower, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			days = append(days, n)
		}
	}
	for _, m := range regexp.MustCompile(`(\d+)\s*weeks?\b`).FindAllStringSubmatch(lower, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			days = append(days, n*7)
		}
	}
	for _, m := range regexp.MustCompile(`(\d+)\s*months?\b`).FindAllStringSubmatch(lower, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			days = append(days, n*30)
		}
	}
	for _, m := range regexp.MustCompile(`(\d+)\s*years?\b`).FindAllStringSubmatch(lower, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			days = append(days, n*365)
		}
	}
	return days
}

func scoreCondition(userTurns []models.ConversationTurn, leadKind models.LeadKind) models.ConditionProfile {
	if leadKind == models.LeadKindBuyer {
		return models.ConditionProfile{Score: 50}
	}
	score := 50.0
	var defects []string
	for _, turn := range userTurns {
		lower := strings.ToLower(turn.Content)
		for _, kw := range conditionAcknowledgementMarkers {
			if strings.Contains(lower, kw) {
				score += 15
				defects = append(defects, kw)
			}
		}
		for _, kw := range conditionDenialMarkers {
			if strings.Contains(lower, kw) {
				score -= 20
			}
		}
	}
	return models.ConditionProfile{Score: clamp(score, 0, 100), AcknowledgedDefects: dedupe(defects)}
}

func scorePrice(userTurns []models.ConversationTurn) models.PriceProfile {
	score := 50.0
	zestimate := false
	for _, turn := range userTurns {
		lower := strings.ToLower(turn.Content)
		if budgetFigureRe.MatchString(turn.Content) {
			score += 15
		}
		for _, kw := range comparableSalesMarkers {
			if strings.Contains(lower, kw) {
				score += 15
			}
		}
		for _, kw := range zestimateMarkers {
			if strings.Contains(lower, kw) {
				score -= 20
				zestimate = true
			}
		}
	}
	return models.PriceProfile{Score: clamp(score, 0, 100), ZestimateMentioned: zestimate}
}

func scorePCS(full models.History, userTurns []models.ConversationTurn) models.PCS {
	velocity := scoreResponseVelocity(userTurns)
	length := scoreMessageLength(userTurns)
	depth := scoreQuestionDepth(userTurns)
	objection := scoreObjectionHandling(full)
	callAccept := scoreCallAcceptance(userTurns)

	total := (velocity + length + depth + objection + callAccept) / 5

	return models.PCS{
		Total:             round2(total),
		ResponseVelocity:  velocity,
		MessageLength:     length,
		QuestionDepth:     depth,
		ObjectionHandling: objection,
		CallAcceptance:    callAccept,
	}
}

func scoreResponseVelocity(userTurns []models.ConversationTurn) float64 {
	if len(userTurns) < 2 {
		return 10
	}
	var gaps []float64
	for i := 1; i < len(userTurns); i++ {
		d := userTurns[i].Timestamp.Sub(userTurns[i-1].Timestamp).Seconds()
		if d < 0 {
			d = 0
		}
		gaps = append(gaps, d)
	}
	median := medianFloat(gaps)
	switch {
	case median <= 120:
		return 100
	case median <= 600:
		return 80
	case median <= 3600:
		return 60
	case median <= 43200:
		return 40
	case median <= 86400:
		return 20
	default:
		return 10
	}
}

func scoreMessageLength(userTurns []models.ConversationTurn) float64 {
	if len(userTurns) == 0 {
		return 20
	}
	var counts []float64
	for _, turn := range userTurns {
		counts = append(counts, float64(len(strings.Fields(turn.Content))))
	}
	median := medianFloat(counts)
	switch {
	case median >= 20:
		return 100
	case median >= 10:
		return 70
	case median >= 5:
		return 50
	default:
		return 20
	}
}

func scoreQuestionDepth(userTurns []models.ConversationTurn) float64 {
	if len(userTurns) == 0 {
		return 0
	}
	hits := 0
	for _, turn := range userTurns {
		if !questionRe.MatchString(turn.Content) {
			continue
		}
		lower := strings.ToLower(turn.Content)
		for _, noun := range domainNouns {
			if strings.Contains(lower, noun) {
				hits++
				break
			}
		}
	}
	return round2(float64(hits) / float64(len(userTurns)) * 100)
}

func scoreObjectionHandling(full models.History) float64 {
	overcome := 0
	raised := 0
	for i, turn := range full {
		if turn.Role != models.RoleUser {
			continue
		}
		lower := strings.ToLower(turn.Content)
		isObjection := false
		for _, kw := range objectionMarkers {
			if strings.Contains(lower, kw) {
				isObjection = true
				break
			}
		}
		if !isObjection {
			continue
		}
		raised++
		for j := i + 1; j < len(full) && j <= i+3; j++ {
			if full[j].Role != models.RoleUser {
				continue
			}
			jLower := strings.ToLower(full[j].Content)
			for _, kw := range agreementMarkers {
				if strings.Contains(jLower, kw) {
					overcome++
					break
				}
			}
		}
	}
	score := float64(overcome-raised) * 10
	return clamp(score+50, 0, 100)
}

func scoreCallAcceptance(userTurns []models.ConversationTurn) float64 {
	for i := len(userTurns) - 1; i >= 0; i-- {
		lower := strings.ToLower(userTurns[i].Content)
		for _, kw := range callDeclineMarkers {
			if strings.Contains(lower, kw) {
				return 0
			}
		}
		for _, kw := range callAcceptanceMarkers {
			if strings.Contains(lower, kw) {
				return 100
			}
		}
	}
	return 0
}

func keywordConfidence(userTurns []models.ConversationTurn, keywords []string) float64 {
	count := 0
	for _, turn := range userTurns {
		lower := strings.ToLower(turn.Content)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				count++
			}
		}
	}
	return round2(float64(count) / float64(count+3))
}

func nextBestAction(cls models.Classification, frs models.FRS, pcs models.PCS) string {
	switch cls {
	case models.ClassificationHot:
		return "schedule-call"
	case models.ClassificationWarm:
		return "continue-qualification"
	case models.ClassificationLukewarm:
		return "nurture-follow-up"
	default:
		return "long-term-nurture"
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func medianFloat(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
