package llm

import (
	"context"
)

// TemplateClient is the soft-fallback Client used when no LLM is wired,
// or substituted after a real Client's DraftResponse fails. It never
// errors, matching the workflow node contract that a node's response
// plan must always be produced (§4.5, §7).
type TemplateClient struct{}

// DraftResponse implements Client with a deterministic, tone-keyed
// template. It never calls out, never fails, and never retries.
func (TemplateClient) DraftResponse(_ context.Context, req DraftRequest) (DraftResult, error) {
	text := templateFor(req.Tone)
	return DraftResult{Text: text}, nil
}

func templateFor(tone string) string {
	switch tone {
	case "confrontational":
		return "I want to make sure I'm using your time well — is now still a good time to keep going, or should we pick this back up later?"
	case "take-away":
		return "No pressure at all — it sounds like this may not be the right time. I'll check back down the road if that's okay."
	case "direct":
		return "Got it. Let's keep moving — what's the next detail you can share?"
	case "warm":
		return "Thanks for sharing that. I'd love to learn a bit more so I can point you in the right direction."
	default:
		return "Thanks for your message — I'll follow up shortly with more information."
	}
}
