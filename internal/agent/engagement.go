package agent

import (
	"context"
	"fmt"
	"math/rand"

	"chirp/internal/logging"
	"chirp/internal/perception"
)

const replyTaskTemplate = "You've found a tweet from @%s that says: \"%s\"\nYour task is to write a valuable, insightful reply."

// discoverySampleSize bounds how many visible items discovery inspects.
const discoverySampleSize = 10

// EngagementStrategy discovers one reply candidate on the timeline and
// composes a reply to it.
type EngagementStrategy struct {
	timeline TimelineSource
	llm      perception.LLMClient
	tone     string
	niche    string
	history  *History
	rng      *rand.Rand
	log      *logging.Logger
}

// NewEngagementStrategy creates the engagement/reply strategy.
func NewEngagementStrategy(timeline TimelineSource, llm perception.LLMClient, tone, niche string, history *History, rng *rand.Rand) *EngagementStrategy {
	return &EngagementStrategy{
		timeline: timeline,
		llm:      llm,
		tone:     tone,
		niche:    niche,
		history:  history,
		rng:      rng,
		log:      logging.Get(logging.CategoryAgent),
	}
}

// Name implements Strategy.
func (s *EngagementStrategy) Name() string { return "engagement" }

// Attempt implements Strategy: discover a target, then compose the
// reply.
func (s *EngagementStrategy) Attempt(ctx context.Context) (*Outcome, error) {
	target, err := s.Discover(ctx)
	if err != nil {
		return nil, err
	}

	task := fmt.Sprintf(replyTaskTemplate, target.Author, target.Text)
	prompt := BuildPrompt(task, s.tone, s.niche, s.history, true)

	raw, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	draft, err := ParseDraft(raw)
	if err != nil {
		return nil, err
	}

	return &Outcome{Target: target, Reply: draft.TweetText}, nil
}

// Discover searches the timeline for the configured niche (the generic
// feed when none is set) and inspects up to ten items sampled without
// replacement. Promoted items are skipped; an item missing author,
// text, or permalink is skipped. No fallback beyond the initial sample.
func (s *EngagementStrategy) Discover(ctx context.Context) (*EngagementTarget, error) {
	cards, err := s.timeline.SearchTimeline(ctx, s.niche)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: no visible items", ErrSourceUnavailable)
	}

	sample := s.rng.Perm(len(cards))
	if len(sample) > discoverySampleSize {
		sample = sample[:discoverySampleSize]
	}

	for _, idx := range sample {
		card := cards[idx]
		if card.Promoted {
			continue
		}
		if card.Author == "" || card.Text == "" || card.URL == "" {
			continue
		}
		s.log.Debug("discovery picked @%s", card.Author)
		return &EngagementTarget{
			Author: card.Author,
			Text:   card.Text,
			URL:    card.URL,
		}, nil
	}

	return nil, fmt.Errorf("%w: no suitable item in sample", ErrSourceUnavailable)
}
