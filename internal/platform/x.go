// Package platform implements the X.com operations the agent needs:
// login, compose, reply, and the two timeline scrapes that feed the
// content strategies. Every operation either succeeds within its
// timeout or returns an error the caller converts into a strategy or
// dispatch failure.
package platform

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"chirp/internal/browser"
	"chirp/internal/logging"

	"github.com/go-rod/rod/lib/proto"
)

// BaseURL is the platform root.
const BaseURL = "https://x.com"

// TweetCard is one visible item scraped from a timeline. Fields that
// could not be extracted stay empty; the caller decides whether the
// card is usable.
type TweetCard struct {
	Author   string
	Text     string
	URL      string
	Promoted bool
}

// Client performs platform operations through a browser surface.
type Client struct {
	surface *browser.Surface
	log     *logging.Logger
}

// NewClient creates a platform client over a started surface.
func NewClient(surface *browser.Surface) *Client {
	return &Client{
		surface: surface,
		log:     logging.Get(logging.CategoryBrowser),
	}
}

// settle gives the page a moment to finish rendering after a load or a
// click. The platform hydrates timelines well after the load event.
func settle(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Login performs the interactive login sequence and waits for the home
// timeline to confirm it.
func (c *Client) Login(ctx context.Context, username, password string) error {
	c.log.Info("logging in")
	if err := c.surface.Navigate(ctx, BaseURL+"/login"); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err := c.surface.Type(ctx, `input[name="text"]`, username); err != nil {
		return fmt.Errorf("login: username field: %w", err)
	}
	settle(ctx, 500*time.Millisecond)

	next, err := c.surface.WaitElementR(ctx, "button", "^Next$")
	if err != nil {
		return fmt.Errorf("login: next button: %w", err)
	}
	if err := next.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("login: next button: %w", err)
	}

	if err := c.surface.Type(ctx, `input[name="password"]`, password); err != nil {
		return fmt.Errorf("login: password field: %w", err)
	}
	settle(ctx, 500*time.Millisecond)

	if err := c.surface.Click(ctx, `[data-testid="LoginForm_Login_Button"]`); err != nil {
		return fmt.Errorf("login: submit: %w", err)
	}

	if _, err := c.surface.WaitElement(ctx, `[data-testid="primaryColumn"]`); err != nil {
		return fmt.Errorf("login: home feed did not load: %w", err)
	}
	c.log.Info("login successful")
	return nil
}

// Post opens the composer, optionally attaches a media file, types the
// text, and submits.
func (c *Client) Post(ctx context.Context, text, imagePath string) error {
	if err := c.surface.Navigate(ctx, BaseURL+"/compose/post"); err != nil {
		return fmt.Errorf("post: %w", err)
	}

	area, err := c.surface.WaitElement(ctx, `div[data-testid="tweetTextarea_0"]`)
	if err != nil {
		return fmt.Errorf("post: composer: %w", err)
	}

	if imagePath != "" {
		if err := c.surface.AttachFile(ctx, `input[data-testid="fileInput"]`, imagePath); err != nil {
			return fmt.Errorf("post: attach media: %w", err)
		}
		// Upload processing has no completion signal worth trusting.
		settle(ctx, 10*time.Second)
	}

	if err := area.Input(text); err != nil {
		return fmt.Errorf("post: type text: %w", err)
	}
	settle(ctx, time.Second)

	if err := c.surface.Click(ctx, `button[data-testid="tweetButton"]`); err != nil {
		return fmt.Errorf("post: submit: %w", err)
	}
	settle(ctx, 5*time.Second)
	c.log.Info("post submitted")
	return nil
}

// Reply opens a permalink, starts a reply, types the text, and submits.
func (c *Client) Reply(ctx context.Context, permalink, text string) error {
	if err := c.surface.Navigate(ctx, permalink); err != nil {
		return fmt.Errorf("reply: %w", err)
	}

	if err := c.surface.Click(ctx, `article[data-testid="tweet"] button[data-testid="reply"]`); err != nil {
		return fmt.Errorf("reply: open composer: %w", err)
	}

	if err := c.surface.Type(ctx, `div[data-testid="tweetTextarea_0"]`, text); err != nil {
		return fmt.Errorf("reply: type text: %w", err)
	}
	settle(ctx, time.Second)

	if err := c.surface.Click(ctx, `button[data-testid="tweetButton"]`); err != nil {
		return fmt.Errorf("reply: submit: %w", err)
	}
	settle(ctx, 5*time.Second)
	c.log.Info("reply submitted to %s", permalink)
	return nil
}

// TrendingTopics scrapes the currently-trending listing as short text
// snippets. An empty result is not an error here; the strategy decides
// what an empty listing means.
func (c *Client) TrendingTopics(ctx context.Context) ([]string, error) {
	if err := c.surface.Navigate(ctx, BaseURL+"/explore/tabs/trending"); err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}
	if _, err := c.surface.WaitElement(ctx, `div[data-testid="trend"]`); err != nil {
		return nil, fmt.Errorf("trending: listing did not load: %w", err)
	}
	settle(ctx, 3*time.Second)

	elements, err := c.surface.Elements(ctx, `div[data-testid="trend"]`)
	if err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}

	var trends []string
	for _, el := range elements {
		text, err := el.Text()
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		trends = append(trends, strings.TrimSpace(text))
	}
	c.log.Info("trending: %d topics", len(trends))
	return trends, nil
}

// SearchTimeline scrapes visible tweet cards from a live search for the
// niche, or from the home feed when no niche is configured.
func (c *Client) SearchTimeline(ctx context.Context, niche string) ([]TweetCard, error) {
	target := BaseURL + "/home"
	if niche != "" {
		target = fmt.Sprintf("%s/search?q=%s&src=typed_query&f=live", BaseURL, url.QueryEscape(niche))
	}

	if err := c.surface.Navigate(ctx, target); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if _, err := c.surface.WaitElement(ctx, `article[data-testid="tweet"]`); err != nil {
		return nil, fmt.Errorf("search: timeline did not load: %w", err)
	}
	settle(ctx, 2*time.Second)

	elements, err := c.surface.Elements(ctx, `article[data-testid="tweet"]`)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	cards := make([]TweetCard, 0, len(elements))
	for _, el := range elements {
		card := TweetCard{}

		if full, err := el.Text(); err == nil {
			card.Promoted = strings.Contains(strings.ToLower(full), "promoted")
		}

		// Field lookups get a short deadline: a missing field should
		// skip the card, not stall the scrape.
		if author, err := el.Timeout(time.Second).ElementR(`div[data-testid="User-Name"] span`, "@"); err == nil {
			if text, err := author.Text(); err == nil {
				card.Author = strings.TrimPrefix(strings.TrimSpace(text), "@")
			}
		}

		if body, err := el.Timeout(time.Second).Element(`div[data-testid="tweetText"]`); err == nil {
			if text, err := body.Text(); err == nil {
				card.Text = strings.TrimSpace(text)
			}
		}

		if link, err := el.Timeout(time.Second).Element(`a[href*="/status/"]`); err == nil {
			if href, err := link.Attribute("href"); err == nil && href != nil {
				card.URL = absoluteURL(*href)
			}
		}

		cards = append(cards, card)
	}
	c.log.Info("search: %d cards", len(cards))
	return cards, nil
}

func absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return BaseURL + href
}
