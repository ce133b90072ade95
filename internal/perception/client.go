// Package perception holds the LLM client used to turn tasks into
// candidate post text. Providers return raw text; interpreting it as a
// structured draft is the caller's concern.
package perception

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrSafetyBlocked is returned when the service refuses to complete the
// prompt for safety reasons. Callers treat it like any other service
// failure: the strategy yields nothing, the run continues.
var ErrSafetyBlocked = errors.New("completion blocked by safety filter")

// LLMClient defines the interface for text generation providers.
//
// Complete strips markdown code-fence markers from the response, which
// is what every JSON-shaped prompt wants. CompleteRaw returns the
// response untouched, for callers that want plain prose (the
// resummarization path).
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteRaw(ctx context.Context, prompt string) (string, error)
}

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	Timeout         time.Duration
	MaxOutputTokens int
}

// StripFences removes markdown code-fence markers from a response so
// the remainder parses as JSON. Mirrors what the service tends to wrap
// around structured output.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
