package agent

import (
	"context"
	"errors"

	"chirp/internal/news"
	"chirp/internal/platform"
)

// mockLLM implements perception.LLMClient locally for these tests.
type mockLLM struct {
	completeResp string
	completeErr  error
	rawResp      string
	rawErr       error

	completeCalls int
	rawCalls      int
	lastPrompt    string
}

func (m *mockLLM) Complete(ctx context.Context, prompt string) (string, error) {
	m.completeCalls++
	m.lastPrompt = prompt
	return m.completeResp, m.completeErr
}

func (m *mockLLM) CompleteRaw(ctx context.Context, prompt string) (string, error) {
	m.rawCalls++
	m.lastPrompt = prompt
	return m.rawResp, m.rawErr
}

type mockTrends struct {
	listing []string
	err     error
}

func (m *mockTrends) TrendingTopics(ctx context.Context) ([]string, error) {
	return m.listing, m.err
}

type mockTimeline struct {
	cards []platform.TweetCard
	err   error
	niche string
}

func (m *mockTimeline) SearchTimeline(ctx context.Context, niche string) ([]platform.TweetCard, error) {
	m.niche = niche
	return m.cards, m.err
}

type mockNews struct {
	articles []news.Article
	err      error
	query    string
	pageSize int
	sortBy   string
}

func (m *mockNews) Everything(ctx context.Context, query string, pageSize int, sortBy string) ([]news.Article, error) {
	m.query = query
	m.pageSize = pageSize
	m.sortBy = sortBy
	return m.articles, m.err
}

type mockPublisher struct {
	postText  string
	postImage string
	replyURL  string
	replyText string
	postCalls int
	replyN    int
	err       error
}

func (m *mockPublisher) Post(ctx context.Context, text, imagePath string) error {
	m.postCalls++
	m.postText = text
	m.postImage = imagePath
	return m.err
}

func (m *mockPublisher) Reply(ctx context.Context, permalink, text string) error {
	m.replyN++
	m.replyURL = permalink
	m.replyText = text
	return m.err
}

type mockMedia struct {
	path    string
	err     error
	removed []string
}

func (m *mockMedia) FetchImage(ctx context.Context, query string) (string, error) {
	return m.path, m.err
}

func (m *mockMedia) RemoveMedia(path string) {
	m.removed = append(m.removed, path)
}

type mockStore struct {
	recent   []string
	appended []string
	err      error
}

func (m *mockStore) Recent(ctx context.Context, n int) ([]string, error) {
	return m.recent, m.err
}

func (m *mockStore) Append(ctx context.Context, text string) error {
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, text)
	return nil
}

var errBoom = errors.New("boom")
