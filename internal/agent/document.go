package agent

import (
	"context"
	"fmt"
	"os"
	"strings"

	"chirp/internal/logging"
	"chirp/internal/perception"
)

const documentTaskTemplate = "Create a compelling tweet that captures the main idea of this text:\n---\n%s"

const (
	// documentPrefixLimit bounds how much document text reaches the
	// prompt.
	documentPrefixLimit = 4000
	// documentImageQueryLimit bounds the image query derived from the
	// generated text.
	documentImageQueryLimit = 100
)

// DocumentStrategy derives a post from a local document. The document
// is consumed as flattened paragraph text; an unset path or missing
// file is a plain "no content" outcome and no AI call is made.
type DocumentStrategy struct {
	path    string
	llm     perception.LLMClient
	tone    string
	history *History
	log     *logging.Logger
}

// NewDocumentStrategy creates the document-derived post strategy.
func NewDocumentStrategy(path string, llm perception.LLMClient, tone string, history *History) *DocumentStrategy {
	return &DocumentStrategy{
		path:    path,
		llm:     llm,
		tone:    tone,
		history: history,
		log:     logging.Get(logging.CategoryAgent),
	}
}

// Name implements Strategy.
func (s *DocumentStrategy) Name() string { return "document" }

// Attempt implements Strategy.
func (s *DocumentStrategy) Attempt(ctx context.Context) (*Outcome, error) {
	if s.path == "" {
		return nil, fmt.Errorf("%w: no document path configured", ErrSourceUnavailable)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.log.Warn("document unreadable: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	content := flattenParagraphs(string(data))
	if content == "" {
		s.log.Warn("document %s is empty", s.path)
		return nil, fmt.Errorf("%w: document is empty", ErrSourceUnavailable)
	}
	content = truncateRunes(content, documentPrefixLimit)

	task := fmt.Sprintf(documentTaskTemplate, content)
	prompt := BuildPrompt(task, s.tone, "document analysis", s.history, false)

	raw, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	draft, err := ParseDraft(raw)
	if err != nil {
		return nil, err
	}

	return &Outcome{Post: &ContentPackage{
		Text:       draft.TweetText,
		ImageQuery: truncateRunes(draft.TweetText, documentImageQueryLimit),
	}}, nil
}

// flattenParagraphs joins the document's paragraphs into one block of
// newline-separated text.
func flattenParagraphs(doc string) string {
	var paragraphs []string
	for _, block := range strings.Split(doc, "\n") {
		line := strings.TrimSpace(block)
		if line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return strings.Join(paragraphs, "\n")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
