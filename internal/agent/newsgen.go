package agent

import (
	"context"
	"fmt"
	"math/rand"

	"chirp/internal/logging"
	"chirp/internal/perception"
)

const newsTaskTemplate = "Analyze this news headline: '%s'. Formulate an insightful tweet about it."

// newsPageSize selects up to the 50 most-recent articles for the niche.
const newsPageSize = 50

// NewsStrategy derives a post from one recent article in the configured
// niche.
type NewsStrategy struct {
	source  NewsSource
	llm     perception.LLMClient
	tone    string
	niche   string
	history *History
	rng     *rand.Rand
	log     *logging.Logger
}

// NewNewsStrategy creates the news-derived post strategy.
func NewNewsStrategy(source NewsSource, llm perception.LLMClient, tone, niche string, history *History, rng *rand.Rand) *NewsStrategy {
	return &NewsStrategy{
		source:  source,
		llm:     llm,
		tone:    tone,
		niche:   niche,
		history: history,
		rng:     rng,
		log:     logging.Get(logging.CategoryAgent),
	}
}

// Name implements Strategy.
func (s *NewsStrategy) Name() string { return "news" }

// Attempt implements Strategy. Fails on a non-success provider status,
// zero articles, or an empty headline.
func (s *NewsStrategy) Attempt(ctx context.Context) (*Outcome, error) {
	articles, err := s.source.Everything(ctx, s.niche, newsPageSize, "publishedAt")
	if err != nil {
		s.log.Warn("news provider unavailable: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if len(articles) == 0 {
		s.log.Warn("news provider returned no articles for %q", s.niche)
		return nil, fmt.Errorf("%w: no articles for niche", ErrSourceUnavailable)
	}

	headline := articles[s.rng.Intn(len(articles))].Title
	if headline == "" {
		s.log.Warn("picked article has no headline")
		return nil, fmt.Errorf("%w: article has no headline", ErrSourceUnavailable)
	}

	task := fmt.Sprintf(newsTaskTemplate, headline)
	prompt := BuildPrompt(task, s.tone, s.niche, s.history, false)

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
		ImageQuery: headline,
	}}, nil
}
