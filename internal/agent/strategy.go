package agent

import "context"

// Strategy is a pluggable procedure that produces one candidate
// post/reply payload from a distinct input source. A strategy that
// cannot obtain content returns ErrSourceUnavailable; a response that
// fails to parse returns ErrMalformedDraft. Neither propagates as a
// fatal error, and no strategy is retried within a run.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context) (*Outcome, error)
}
