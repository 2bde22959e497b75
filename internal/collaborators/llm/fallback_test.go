package llm

import (
	"context"
	"testing"
)

func TestTemplateClient_NeverErrors(t *testing.T) {
	client := TemplateClient{}
	result, err := client.DraftResponse(context.Background(), DraftRequest{Tone: "confrontational"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text == "" {
		t.Error("expected non-empty fallback text")
	}
}

func TestTemplateClient_UnknownToneFallsBackToDefault(t *testing.T) {
	client := TemplateClient{}
	result, _ := client.DraftResponse(context.Background(), DraftRequest{Tone: "unknown-tone"})
	if result.Text == "" {
		t.Error("expected non-empty fallback text for unknown tone")
	}
}
