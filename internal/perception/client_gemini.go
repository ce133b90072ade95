package perception

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chirp/internal/logging"
)

// GeminiClient implements LLMClient against the Gemini REST API.
//
// There is deliberately no retry here: a transport error, timeout, or
// safety block surfaces as a single failure and the caller decides
// whether to invoke again.
type GeminiClient struct {
	apiKey          string
	baseURL         string
	model           string
	maxOutputTokens int
	httpClient      *http.Client
	log             *logging.Logger
}

// DefaultGeminiConfig returns sensible defaults.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:  apiKey,
		BaseURL: "https://generativelanguage.googleapis.com/v1beta",
		Model:   "gemini-1.5-flash",
		Timeout: 60 * time.Second,
	}
}

// NewGeminiClient creates a new Gemini client with default config.
func NewGeminiClient(apiKey string) *GeminiClient {
	return NewGeminiClientWithConfig(DefaultGeminiConfig(apiKey))
}

// NewGeminiClientWithConfig creates a new Gemini client with custom config.
func NewGeminiClientWithConfig(config GeminiConfig) *GeminiClient {
	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = "gemini-1.5-flash"
	}
	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &GeminiClient{
		apiKey:          config.APIKey,
		baseURL:         baseURL,
		model:           model,
		maxOutputTokens: config.MaxOutputTokens,
		httpClient:      &http.Client{Timeout: timeout},
		log:             logging.Get(logging.CategoryPerception),
	}
}

// Complete sends a prompt and returns the completion with code-fence
// markers stripped.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return StripFences(text), nil
}

// CompleteRaw sends a prompt and returns the completion untouched.
func (c *GeminiClient) CompleteRaw(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt)
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("API key not configured")
	}

	// Bound the call even when the caller passed a bare context.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	c.log.Debug("generate: model=%s prompt_len=%d", c.model, len(prompt))

	reqBody := GeminiRequest{
		Contents: []GeminiContent{
			{
				Role:  "user",
				Parts: []GeminiPart{{Text: prompt}},
			},
		},
	}
	if c.maxOutputTokens > 0 {
		reqBody.GenerationConfig = &GeminiGenerationConfig{MaxOutputTokens: c.maxOutputTokens}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("generate: request failed after %v: %v", time.Since(startTime), err)
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Error("generate: status %d", resp.StatusCode)
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var geminiResp GeminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if geminiResp.Error != nil {
		return "", fmt.Errorf("API error: %s", geminiResp.Error.Message)
	}

	if len(geminiResp.Candidates) == 0 {
		return "", fmt.Errorf("no completion returned")
	}
	candidate := geminiResp.Candidates[0]
	if candidate.FinishReason == "SAFETY" {
		c.log.Warn("generate: completion safety-blocked")
		return "", ErrSafetyBlocked
	}
	if len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no completion returned")
	}

	var result strings.Builder
	for _, part := range candidate.Content.Parts {
		result.WriteString(part.Text)
	}
	response := strings.TrimSpace(result.String())

	c.log.Info("generate: completed in %v response_len=%d", time.Since(startTime), len(response))
	return response, nil
}
