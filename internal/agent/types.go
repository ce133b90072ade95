// Package agent implements the content decision-and-generation
// pipeline: action selection, the content-sourcing strategies, prompt
// construction, response parsing, length enforcement, and the
// orchestrator that binds them into one decision cycle per run.
package agent

import (
	"context"
	"errors"

	"chirp/internal/news"
	"chirp/internal/platform"
)

// PlatformCharLimit is the platform's character budget for one item.
const PlatformCharLimit = 280

// Errors shared across the pipeline. A strategy that cannot obtain
// content returns ErrSourceUnavailable; the orchestrator logs it and
// ends the run without a dispatch. Neither is ever fatal.
var (
	ErrSourceUnavailable = errors.New("no content available from source")
	ErrMalformedDraft    = errors.New("AI response did not match the required draft shape")
)

// Action is the per-run decision: compose a fresh post or reply to an
// existing one.
type Action int

const (
	ActionPost Action = iota
	ActionReply
)

func (a Action) String() string {
	if a == ActionReply {
		return "reply"
	}
	return "post"
}

// ContentPackage is the unit produced by a post strategy: candidate
// text plus a search hint for media lookup.
type ContentPackage struct {
	Text       string
	ImageQuery string
}

// EngagementTarget is an existing post identified as a reply candidate.
type EngagementTarget struct {
	Author string
	Text   string
	URL    string
}

// Outcome is what a strategy produced. Exactly one of Post or
// (Target, Reply) is set.
type Outcome struct {
	Post   *ContentPackage
	Target *EngagementTarget
	Reply  string
}

// TrendSource supplies the live listing of currently-trending topics.
type TrendSource interface {
	TrendingTopics(ctx context.Context) ([]string, error)
}

// TimelineSource supplies visible tweet cards for engagement discovery.
type TimelineSource interface {
	SearchTimeline(ctx context.Context, niche string) ([]platform.TweetCard, error)
}

// NewsSource supplies recent articles for the news strategy. An
// implementation may return an empty slice without an error; callers
// treat that the same as a provider failure.
type NewsSource interface {
	Everything(ctx context.Context, query string, pageSize int, sortBy string) ([]news.Article, error)
}

// Publisher hands finished content to the remote interaction surface.
type Publisher interface {
	Post(ctx context.Context, text, imagePath string) error
	Reply(ctx context.Context, permalink, text string) error
}

// Media finds, downloads, and releases attachment images.
type Media interface {
	FetchImage(ctx context.Context, query string) (string, error)
	RemoveMedia(path string)
}

// HistoryStore optionally persists the published-text log across runs.
type HistoryStore interface {
	Recent(ctx context.Context, n int) ([]string, error)
	Append(ctx context.Context, text string) error
}
