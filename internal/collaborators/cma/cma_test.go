package cma

import (
	"context"
	"errors"
	"testing"
	"time"

	"realestate-lead-orchestrator/internal/collaborators/llm"
	"realestate-lead-orchestrator/internal/models"
)

type stubStore struct {
	listings []models.ComparableListing
	err      error
}

func (s stubStore) ListByNeighborhood(_ context.Context, _ string, _ int) ([]models.ComparableListing, error) {
	return s.listings, s.err
}

func TestGenerate_FallsBackWhenStoreEmpty(t *testing.T) {
	g := &LLMGenerator{Store: stubStore{}, LLM: llm.TemplateClient{}}
	result, err := g.Generate(context.Background(), Request{Neighborhood: "Maple Heights"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary == "" {
		t.Error("expected a fallback summary")
	}
}

func TestGenerate_FallsBackWhenStoreErrors(t *testing.T) {
	g := &LLMGenerator{Store: stubStore{err: errors.New("boom")}, LLM: llm.TemplateClient{}}
	result, err := g.Generate(context.Background(), Request{Neighborhood: "Maple Heights"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary == "" {
		t.Error("expected a fallback summary on store error")
	}
}

func TestGenerate_UsesComparablesWhenAvailable(t *testing.T) {
	store := stubStore{listings: []models.ComparableListing{
		{Address: "123 Main St", SalePrice: 450000, SoldAt: time.Now()},
	}}
	g := &LLMGenerator{Store: store, LLM: llm.TemplateClient{}}
	result, err := g.Generate(context.Background(), Request{Neighborhood: "Maple Heights", Bedrooms: 3, TargetPrice: 460000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Comparables) != 1 {
		t.Errorf("comparables length = %d, want 1", len(result.Comparables))
	}
}
