package agent

import (
	"context"
	"fmt"
	"unicode/utf8"

	"chirp/internal/logging"
	"chirp/internal/perception"
)

const summarizePromptTemplate = "Summarize the following text to be well under %d characters for a tweet. Keep the original tone and key message.\n\nTEXT:\n---\n%s"

// LengthEnforcer guarantees the platform character budget. Short text
// passes through unchanged; long text gets one resummarization attempt,
// then a deterministic hard truncation that can never fail or exceed
// the limit.
type LengthEnforcer struct {
	llm   perception.LLMClient
	limit int
	log   *logging.Logger
}

// NewLengthEnforcer creates an enforcer for the platform limit.
func NewLengthEnforcer(llm perception.LLMClient) *LengthEnforcer {
	return &LengthEnforcer{
		llm:   llm,
		limit: PlatformCharLimit,
		log:   logging.Get(logging.CategoryAgent),
	}
}

// Enforce returns text whose length is at most the platform limit.
func (e *LengthEnforcer) Enforce(ctx context.Context, text string) string {
	if utf8.RuneCountInString(text) <= e.limit {
		return text
	}

	// The resummarization wants prose back, so skip fence stripping.
	prompt := fmt.Sprintf(summarizePromptTemplate, e.limit, text)
	summarized, err := e.llm.CompleteRaw(ctx, prompt)
	if err != nil {
		e.log.Warn("resummarization failed, truncating: %v", err)
		return hardTruncate(text, e.limit)
	}
	if summarized == "" || utf8.RuneCountInString(summarized) > e.limit {
		e.log.Warn("resummarized text still over limit, truncating")
		return hardTruncate(text, e.limit)
	}
	return summarized
}

// hardTruncate cuts to limit-3 characters plus a three-character
// ellipsis marker. Output length is exactly the limit.
func hardTruncate(text string, limit int) string {
	runes := []rune(text)
	return string(runes[:limit-3]) + "..."
}
