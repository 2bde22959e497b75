// Package cma implements the CMA-generation collaborator (§6: "property
// database and CMA generator"), grounded on the teacher's Chroma
// retrieval client: comparable listings are looked up by neighborhood,
// then the LLM collaborator assembles the CMA narrative from retrieved
// comparables plus the lead's stated price expectations.
package cma

import (
	"context"
	"fmt"
	"sort"

	"realestate-lead-orchestrator/internal/collaborators/llm"
	"realestate-lead-orchestrator/internal/models"
)

// Generator produces a CMA summary for a lead, used by the nurture-
// sequence workflow's 30-day touchpoint (§4.5).
type Generator interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// Request carries the fields a CMA generation needs.
type Request struct {
	Neighborhood string
	Bedrooms     int
	TargetPrice  float64
}

// Result is the generated CMA.
type Result struct {
	Summary     string
	Comparables []models.ComparableListing
}

// Store is the comparable-listing lookup this collaborator retrieves
// from before drafting the narrative. A real deployment backs this with
// the Postgres comparable-listings table; tests use an in-memory slice.
type Store interface {
	ListByNeighborhood(ctx context.Context, neighborhood string, limit int) ([]models.ComparableListing, error)
}

// LLMGenerator composes a Store lookup with the LLM collaborator to
// produce a CMA narrative. Failures from either dependency are soft:
// Generate never returns an error, it degrades to a generic fallback
// summary, with the retrieved comparables attached when the lookup itself
// succeeded (§4.5 soft-failure semantics).
type LLMGenerator struct {
	Store Store
	LLM   llm.Client
}

// Generate implements Generator.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (Result, error) {
	comparables, err := g.Store.ListByNeighborhood(ctx, req.Neighborhood, 5)
	if err != nil || len(comparables) == 0 {
		return Result{Summary: fallbackSummary(req)}, nil
	}
	sort.Slice(comparables, func(i, j int) bool {
		return comparables[i].SoldAt.After(comparables[j].SoldAt)
	})

	draft, err := g.LLM.DraftResponse(ctx, llm.DraftRequest{
		SystemPrompt: buildCMAPrompt(req, comparables),
		Tone:         "direct",
	})
	if err != nil {
		return Result{Summary: fallbackSummary(req), Comparables: comparables}, nil
	}
	return Result{Summary: draft.Text, Comparables: comparables}, nil
}

func buildCMAPrompt(req Request, comparables []models.ComparableListing) string {
	prompt := fmt.Sprintf("Draft a brief comparative market analysis for a %d-bedroom home in %s, target price $%.0f, using these recent sales:\n", req.Bedrooms, req.Neighborhood, req.TargetPrice)
	for _, c := range comparables {
		prompt += fmt.Sprintf("- %s: sold for $%.0f on %s\n", c.Address, c.SalePrice, c.SoldAt.Format("2006-01-02"))
	}
	return prompt
}

func fallbackSummary(req Request) string {
	return fmt.Sprintf("Based on recent activity in %s, homes of similar size have shown steady demand. A full market analysis will follow shortly.", req.Neighborhood)
}
