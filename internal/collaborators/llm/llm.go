// Package llm defines the LLM collaborator contract (§6): draftResponse
// is a text-assembly tool, not an intelligence source. The orchestrator
// and workflow nodes pass tone, classification, and stall-breaker hints
// as structured fields; the LLM only assembles prose from them.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"realestate-lead-orchestrator/internal/models"
)

// DraftRequest carries everything draftResponse needs to assemble text.
type DraftRequest struct {
	SystemPrompt string
	History      models.History
	Tone         string
}

// DraftResult is draftResponse's return value.
type DraftResult struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Client is the LLM collaborator interface.
type Client interface {
	DraftResponse(ctx context.Context, req DraftRequest) (DraftResult, error)
}

// GeminiClient calls the Gemini generateContent API. Retry/backoff is
// internal to this one call: workflow nodes never retry a failed
// draftResponse themselves (§4.5), they soft-fail to a template instead.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient builds a GeminiClient from GEMINI_API_KEY. Returns an
// error if the key is unset; cmd/api then falls back to TemplateClient
// instead of exiting.
func NewGeminiClient() (*GeminiClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	return &GeminiClient{
		apiKey:     apiKey,
		baseURL:    "https://generativelanguage.googleapis.com/v1beta",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// HealthCheck verifies API connectivity at startup.
func (c *GeminiClient) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/models?key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("gemini health check request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gemini health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gemini health check returned status %d", resp.StatusCode)
	}
	return nil
}

// DraftResponse implements Client. It builds a prompt from the structured
// fields, calls Gemini with quota-aware retry, and returns assembled
// text.
func (c *GeminiClient) DraftResponse(ctx context.Context, req DraftRequest) (DraftResult, error) {
	prompt := buildPrompt(req)

	maxRetries := 3
	baseDelay := 1 * time.Second

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return DraftResult{}, ctx.Err()
			case <-time.After(delay):
			}
		}

		text, err := c.generateOnce(ctx, prompt)
		if err == nil {
			return DraftResult{Text: text, InputTokens: estimateTokens(prompt), OutputTokens: estimateTokens(text)}, nil
		}
		lastErr = err

		if isQuotaExceededError(err) {
			log.Printf("[LLM] quota exceeded, failing immediately without retry")
			return DraftResult{}, err
		}
		errStr := strings.ToLower(err.Error())
		if strings.Contains(errStr, "429") {
			if retryAfter := extractRetryAfter(err.Error()); retryAfter > 0 && attempt < maxRetries {
				log.Printf("[LLM] rate limited, waiting %.1fs before retry", retryAfter.Seconds())
				select {
				case <-ctx.Done():
					return DraftResult{}, ctx.Err()
				case <-time.After(retryAfter):
				}
				continue
			}
			return DraftResult{}, err
		}
		if strings.Contains(errStr, "400") || strings.Contains(errStr, "401") || strings.Contains(errStr, "403") || strings.Contains(errStr, "404") {
			return DraftResult{}, err
		}
		if attempt < maxRetries {
			continue
		}
	}
	return DraftResult{}, fmt.Errorf("llm: failed after %d attempts: %w", maxRetries+1, lastErr)
}

func buildPrompt(req DraftRequest) string {
	var sb strings.Builder
	sb.WriteString(req.SystemPrompt)
	sb.WriteString(fmt.Sprintf("\nTone: %s\n\n", req.Tone))
	for _, turn := range req.History {
		sb.WriteString(fmt.Sprintf("%s: %s\n", turn.Role, turn.Content))
	}
	return sb.String()
}

func (c *GeminiClient) generateOnce(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/models/gemini-2.5-flash:generateContent?key=%s", c.baseURL, c.apiKey)

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]interface{}{{"text": prompt}}},
		},
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	text := extractTextFromResponse(result)
	if text == "" {
		return "", fmt.Errorf("no text in response")
	}
	return text, nil
}

func extractTextFromResponse(result map[string]interface{}) string {
	candidates, ok := result["candidates"].([]interface{})
	if !ok || len(candidates) == 0 {
		return ""
	}
	candidate, ok := candidates[0].(map[string]interface{})
	if !ok {
		return ""
	}
	content, ok := candidate["content"].(map[string]interface{})
	if !ok {
		return ""
	}
	parts, ok := content["parts"].([]interface{})
	if !ok || len(parts) == 0 {
		return ""
	}
	part, ok := parts[0].(map[string]interface{})
	if !ok {
		return ""
	}
	text, _ := part["text"].(string)
	return text
}

func isQuotaExceededError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	quotaPatterns := []string{
		"exceeded your current quota",
		"quota exceeded for metric",
		"resource_exhausted",
		"quota exceeded",
	}
	for _, pattern := range quotaPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

var retryAfterRe = regexp.MustCompile(`Please retry in ([\d.]+)s`)

func extractRetryAfter(errorBody string) time.Duration {
	matches := retryAfterRe.FindStringSubmatch(errorBody)
	if len(matches) > 1 {
		if seconds, err := strconv.ParseFloat(matches[1], 64); err == nil {
			return time.Duration(seconds * 1.1 * float64(time.Second))
		}
	}
	return 0
}

// estimateTokens is a rough whitespace-based estimate, used only for the
// informational InputTokens/OutputTokens fields; nothing downstream makes
// compliance or routing decisions based on it.
func estimateTokens(text string) int {
	return len(strings.Fields(text))
}
