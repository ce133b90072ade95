// Package news wraps the NewsAPI content provider: article lookup for
// the news strategy and image lookup for media attachment.
package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chirp/internal/logging"

	"golang.org/x/net/html"
)

var (
	// ErrProviderStatus is returned when the provider reports a
	// non-success status in an otherwise well-formed response.
	ErrProviderStatus = errors.New("news provider reported non-ok status")

	// ErrNoArticles is returned when a query matched nothing.
	ErrNoArticles = errors.New("news provider returned no articles")
)

// Article is one item from the provider's everything endpoint.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URLToImage  string `json:"urlToImage"`
}

type everythingResponse struct {
	Status   string    `json:"status"`
	Articles []Article `json:"articles"`
}

// Client is a NewsAPI client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *logging.Logger
}

// NewClient creates a news client. An empty base URL selects the public
// NewsAPI endpoint.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://newsapi.org/v2"
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logging.Get(logging.CategoryNews),
	}
}

// Everything queries the everything endpoint. Articles come back with
// HTML-flattened descriptions so they are safe to embed in a prompt.
func (c *Client) Everything(ctx context.Context, query string, pageSize int, sortBy string) ([]Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("news API key not configured")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("apiKey", c.apiKey)
	params.Set("pageSize", fmt.Sprintf("%d", pageSize))
	params.Set("language", "en")
	params.Set("sortBy", sortBy)

	endpoint := fmt.Sprintf("%s/everything?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("everything: request failed: %v", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed everythingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if parsed.Status != "ok" {
		c.log.Warn("everything: provider status %q", parsed.Status)
		return nil, fmt.Errorf("%w: %s", ErrProviderStatus, parsed.Status)
	}
	if len(parsed.Articles) == 0 {
		return nil, ErrNoArticles
	}

	for i := range parsed.Articles {
		parsed.Articles[i].Description = FlattenHTML(parsed.Articles[i].Description)
	}

	c.log.Info("everything: q=%q articles=%d in %v", query, len(parsed.Articles), time.Since(startTime))
	return parsed.Articles, nil
}

// FlattenHTML reduces an HTML fragment to its visible text. Provider
// descriptions routinely carry markup that has no place in a prompt.
func FlattenHTML(fragment string) string {
	if fragment == "" || !strings.ContainsRune(fragment, '<') {
		return strings.TrimSpace(fragment)
	}

	node, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)

	return strings.Join(strings.Fields(sb.String()), " ")
}
