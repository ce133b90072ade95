package agent

import (
	"encoding/json"
	"fmt"
)

// Draft is the structured result every content prompt demands: a short
// analysis plus the final text. Anything that does not unmarshal into
// this shape, or arrives without text, is malformed.
type Draft struct {
	Analysis  string `json:"analysis"`
	TweetText string `json:"tweet_text"`
}

// ParseDraft interprets a raw AI response as a Draft. A malformed
// response is an expected outcome, reported as ErrMalformedDraft so
// strategies can treat it as their own failure rather than a defect.
func ParseDraft(raw string) (Draft, error) {
	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Draft{}, fmt.Errorf("%w: %v", ErrMalformedDraft, err)
	}
	if d.TweetText == "" {
		return Draft{}, fmt.Errorf("%w: missing tweet_text", ErrMalformedDraft)
	}
	return d, nil
}
