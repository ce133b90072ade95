package agent

import (
	"context"
	"fmt"
	"strings"

	"chirp/internal/logging"
	"chirp/internal/perception"
)

const trendTaskTemplate = "From these trends, find the most interesting one and write an engaging tweet:\n%s"

// trendNiche replaces the configured niche for trend posts: trends are
// current events regardless of what the account usually covers.
const trendNiche = "Current Events"

// TrendStrategy derives a post from the platform's live trending
// listing.
type TrendStrategy struct {
	trends  TrendSource
	llm     perception.LLMClient
	tone    string
	history *History
	log     *logging.Logger
}

// NewTrendStrategy creates the trend-derived post strategy.
func NewTrendStrategy(trends TrendSource, llm perception.LLMClient, tone string, history *History) *TrendStrategy {
	return &TrendStrategy{
		trends:  trends,
		llm:     llm,
		tone:    tone,
		history: history,
		log:     logging.Get(logging.CategoryAgent),
	}
}

// Name implements Strategy.
func (s *TrendStrategy) Name() string { return "trend" }

// Attempt implements Strategy. Fails when the listing is empty or
// unreachable.
func (s *TrendStrategy) Attempt(ctx context.Context) (*Outcome, error) {
	listing, err := s.trends.TrendingTopics(ctx)
	if err != nil {
		s.log.Warn("trending listing unavailable: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if len(listing) == 0 {
		s.log.Warn("trending listing is empty")
		return nil, fmt.Errorf("%w: trending listing is empty", ErrSourceUnavailable)
	}

	task := fmt.Sprintf(trendTaskTemplate, strings.Join(listing, "\n"))
	prompt := BuildPrompt(task, s.tone, trendNiche, s.history, false)

	raw, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	draft, err := ParseDraft(raw)
	if err != nil {
		return nil, err
	}

	imageQuery := draft.Analysis
	if imageQuery == "" {
		imageQuery = draft.TweetText
	}
	return &Outcome{Post: &ContentPackage{
		Text:       draft.TweetText,
		ImageQuery: imageQuery,
	}}, nil
}
