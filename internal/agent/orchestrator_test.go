package agent

import (
	"context"
	"strings"
	"testing"

	"chirp/internal/config"
	"chirp/internal/news"
	"chirp/internal/platform"
)

func newsConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ActionMode = config.ModePostOnlyNews
	cfg.Niche = "space"
	return cfg
}

func TestRunCycleAppendsRequiredText(t *testing.T) {
	cfg := newsConfig(t)
	cfg.RequiredText = "Posted by Bot"

	pub := &mockPublisher{}
	llm := &mockLLM{completeResp: `{"analysis": "a", "tweet_text": "Hello"}`}
	o := NewOrchestrator(cfg, Deps{
		LLM:  llm,
		News: &mockNews{articles: []news.Article{{Title: "headline"}}},
		Pub:  pub,
		Rand: testRand(),
	})

	if err := o.RunCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pub.postText != "Hello\n\nPosted by Bot" {
		t.Fatalf("dispatched %q, want %q", pub.postText, "Hello\n\nPosted by Bot")
	}
}

func TestRunCycleEnforcesLength(t *testing.T) {
	cfg := newsConfig(t)

	long := strings.Repeat("A", 300)
	llm := &mockLLM{
		completeResp: `{"analysis": "a", "tweet_text": "` + long + `"}`,
		rawErr:       errBoom, // resummarization fails, hard truncation applies
	}
	pub := &mockPublisher{}
	o := NewOrchestrator(cfg, Deps{
		LLM:  llm,
		News: &mockNews{articles: []news.Article{{Title: "headline"}}},
		Pub:  pub,
		Rand: testRand(),
	})

	if err := o.RunCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.postText) != 280 || !strings.HasSuffix(pub.postText, "...") {
		t.Fatalf("dispatched %d chars ending %q, want exactly 280 ending in ...",
			len(pub.postText), pub.postText[len(pub.postText)-3:])
	}
}

func TestRunCycleStrategyFailureEndsCleanly(t *testing.T) {
	cfg := newsConfig(t)

	pub := &mockPublisher{}
	o := NewOrchestrator(cfg, Deps{
		LLM:  &mockLLM{},
		News: &mockNews{err: news.ErrProviderStatus},
		Pub:  pub,
		Rand: testRand(),
	})

	if err := o.RunCycle(context.Background()); err != nil {
		t.Fatalf("strategy failure must not error the run: %v", err)
	}
	if pub.postCalls != 0 || pub.replyN != 0 {
		t.Fatal("failed strategy still dispatched")
	}
	if o.History().Len() != 0 {
		t.Fatal("failed run recorded history")
	}
}

func TestRunCycleReleasesMediaOnDispatchFailure(t *testing.T) {
	cfg := newsConfig(t)
	cfg.AttachImage = true

	media := &mockMedia{path: "/tmp/chirp-test.jpg"}
	pub := &mockPublisher{err: errBoom}
	o := NewOrchestrator(cfg, Deps{
		LLM:   &mockLLM{completeResp: `{"analysis": "a", "tweet_text": "Hello"}`},
		News:  &mockNews{articles: []news.Article{{Title: "headline"}}},
		Media: media,
		Pub:   pub,
		Rand:  testRand(),
	})

	if err := o.RunCycle(context.Background()); err == nil {
		t.Fatal("expected dispatch failure to surface")
	}
	if len(media.removed) != 1 || media.removed[0] != media.path {
		t.Fatalf("media not released on failure path: %v", media.removed)
	}
	if pub.postImage != media.path {
		t.Fatalf("dispatch did not carry the media path: %q", pub.postImage)
	}
}

func TestRunCycleReplyFlow(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ActionMode = config.ModeReplyOnly
	cfg.Niche = "space"

	cards := []platform.TweetCard{
		{Author: "astra", Text: "rockets", URL: "https://x.com/astra/status/5"},
	}
	pub := &mockPublisher{}
	st := &mockStore{}
	o := NewOrchestrator(cfg, Deps{
		LLM:      &mockLLM{completeResp: `{"analysis": "a", "tweet_text": "nice"}`},
		Timeline: &mockTimeline{cards: cards},
		Pub:      pub,
		Store:    st,
		Rand:     testRand(),
	})

	if err := o.RunCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pub.replyURL != "https://x.com/astra/status/5" || pub.replyText != "nice" {
		t.Fatalf("reply dispatch = (%q,%q)", pub.replyURL, pub.replyText)
	}
	if pub.postCalls != 0 {
		t.Fatal("reply run also posted")
	}
	if len(st.appended) != 1 || st.appended[0] != "nice" {
		t.Fatalf("store not updated after dispatch: %v", st.appended)
	}
	if got := o.History().Entries(); len(got) != 1 || got[0] != "nice" {
		t.Fatalf("history = %v", got)
	}
}

func TestRunCycleAutoNicheForcesTrends(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ActionMode = config.ModePostOnlyNews
	cfg.AutoNiche = true

	trends := &mockTrends{listing: []string{"#topic"}}
	newsSource := &mockNews{articles: []news.Article{{Title: "unused"}}}
	pub := &mockPublisher{}
	o := NewOrchestrator(cfg, Deps{
		LLM:    &mockLLM{completeResp: `{"analysis": "a", "tweet_text": "t"}`},
		Trends: trends,
		News:   newsSource,
		Pub:    pub,
		Rand:   testRand(),
	})

	if err := o.RunCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newsSource.query != "" {
		t.Error("auto_niche run still queried the news provider")
	}
	if pub.postCalls != 1 {
		t.Error("trend post not dispatched")
	}
}

func TestLoadHistorySeedsPrompts(t *testing.T) {
	cfg := newsConfig(t)
	st := &mockStore{recent: []string{"older", "newer"}}
	o := NewOrchestrator(cfg, Deps{
		LLM:   &mockLLM{},
		Store: st,
		Rand:  testRand(),
	})

	o.LoadHistory(context.Background())
	got := o.History().Entries()
	if len(got) != 2 || got[0] != "older" || got[1] != "newer" {
		t.Fatalf("history = %v, want [older newer]", got)
	}
}

func TestRunCycleSingleDispatchPerInvocation(t *testing.T) {
	cfg := newsConfig(t)
	pub := &mockPublisher{}
	o := NewOrchestrator(cfg, Deps{
		LLM:  &mockLLM{completeResp: `{"analysis": "a", "tweet_text": "once"}`},
		News: &mockNews{articles: []news.Article{{Title: "headline"}}},
		Pub:  pub,
		Rand: testRand(),
	})

	if err := o.RunCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pub.postCalls+pub.replyN != 1 {
		t.Fatalf("dispatch count = %d, want exactly 1", pub.postCalls+pub.replyN)
	}
}
