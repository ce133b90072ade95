package news

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// MediaFetcher finds and downloads an image for a content package. The
// file is a scoped resource: the orchestrator removes it after dispatch
// regardless of outcome.
type MediaFetcher struct {
	client *Client
	rng    *rand.Rand
	dir    string
}

// NewMediaFetcher creates a fetcher that downloads into dir (the OS
// temp directory when empty). The random source picks among candidate
// articles and is injected so tests can pin it.
func NewMediaFetcher(client *Client, rng *rand.Rand, dir string) *MediaFetcher {
	if dir == "" {
		dir = os.TempDir()
	}
	return &MediaFetcher{client: client, rng: rng, dir: dir}
}

// FetchImage finds an image matching the query and downloads it to a
// temp file, returning the path. An empty path with nil error means no
// suitable image existed; dispatch proceeds without media.
func (f *MediaFetcher) FetchImage(ctx context.Context, query string) (string, error) {
	articles, err := f.client.Everything(ctx, query, 20, "relevancy")
	if err != nil {
		return "", err
	}

	withImages := articles[:0:0]
	for _, a := range articles {
		if a.URLToImage != "" {
			withImages = append(withImages, a)
		}
	}
	if len(withImages) == 0 {
		return "", nil
	}

	pick := withImages[f.rng.Intn(len(withImages))]
	return f.download(ctx, pick.URLToImage)
}

func (f *MediaFetcher) download(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.client.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image download failed with status %d", resp.StatusCode)
	}

	path := filepath.Join(f.dir, fmt.Sprintf("chirp-%s.jpg", uuid.NewString()))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close media file: %w", err)
	}

	f.client.log.Info("download: saved %s", path)
	return path, nil
}

// RemoveMedia deletes a downloaded media file. Safe on an empty path
// and on a file already gone.
func (f *MediaFetcher) RemoveMedia(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		f.client.log.Warn("could not delete media file %s: %v", path, err)
	}
}
