// Package browser owns the headless Chrome instance behind the remote
// interaction surface. One page per run: the agent performs a single
// decision cycle, so there is no session tracking to speak of.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chirp/internal/logging"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// Config holds browser configuration.
type Config struct {
	Bin                 string
	Headless            bool
	ViewportWidth       int
	ViewportHeight      int
	NavigationTimeoutMs int
	WaitTimeoutMs       int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:            true,
		ViewportWidth:       1920,
		ViewportHeight:      1080,
		NavigationTimeoutMs: 20000,
		WaitTimeoutMs:       20000,
	}
}

// NavigationTimeout returns the navigation timeout.
func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs == 0 {
		return 20 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// WaitTimeout returns the element-wait timeout.
func (c Config) WaitTimeout() time.Duration {
	if c.WaitTimeoutMs == 0 {
		return 20 * time.Second
	}
	return time.Duration(c.WaitTimeoutMs) * time.Millisecond
}

// Surface drives the browser page the agent acts through.
type Surface struct {
	cfg     Config
	browser *rod.Browser
	page    *rod.Page
	log     *logging.Logger
}

// NewSurface creates a surface. Start must be called before use.
func NewSurface(cfg Config) *Surface {
	return &Surface{
		cfg: cfg,
		log: logging.Get(logging.CategoryBrowser),
	}
}

// Start launches Chrome and opens the working page. Failure here is the
// one fatal condition of a run: without a browser there is nothing to
// dispatch through.
func (s *Surface) Start(ctx context.Context) error {
	launch := launcher.New().
		Headless(s.cfg.Headless).
		Set(flags.Flag("no-sandbox")).
		Set(flags.Flag("disable-dev-shm-usage"))
	if s.cfg.Bin != "" {
		launch = launch.Bin(s.cfg.Bin)
	}

	controlURL, err := launch.Launch()
	if err != nil {
		return fmt.Errorf("launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             s.cfg.ViewportWidth,
		Height:            s.cfg.ViewportHeight,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		s.log.Warn("failed to set viewport: %v", err)
	}

	s.browser = browser
	s.page = page
	s.log.Info("browser started headless=%v", s.cfg.Headless)
	return nil
}

// IsConnected returns whether the browser is up.
func (s *Surface) IsConnected() bool {
	return s.browser != nil
}

// Shutdown closes the page and the browser.
func (s *Surface) Shutdown() error {
	if s.page != nil {
		_ = s.page.Close()
		s.page = nil
	}
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	return err
}

func (s *Surface) currentPage() (*rod.Page, error) {
	if s.page == nil {
		return nil, errors.New("browser not connected")
	}
	return s.page, nil
}

// Navigate navigates the working page to a URL and waits for load.
func (s *Surface) Navigate(ctx context.Context, url string) error {
	page, err := s.currentPage()
	if err != nil {
		return err
	}
	s.log.Debug("navigate %s", url)
	p := page.Context(ctx).Timeout(s.cfg.NavigationTimeout())
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return p.WaitLoad()
}

// WaitElement waits for an element matching a CSS selector to appear.
func (s *Surface) WaitElement(ctx context.Context, selector string) (*rod.Element, error) {
	page, err := s.currentPage()
	if err != nil {
		return nil, err
	}
	el, err := page.Context(ctx).Timeout(s.cfg.WaitTimeout()).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("element not found: %s: %w", selector, err)
	}
	return el, nil
}

// WaitElementR waits for an element matching a CSS selector whose text
// matches the given regex. Used for buttons identified only by label.
func (s *Surface) WaitElementR(ctx context.Context, selector, regex string) (*rod.Element, error) {
	page, err := s.currentPage()
	if err != nil {
		return nil, err
	}
	el, err := page.Context(ctx).Timeout(s.cfg.WaitTimeout()).ElementR(selector, regex)
	if err != nil {
		return nil, fmt.Errorf("element not found: %s %q: %w", selector, regex, err)
	}
	return el, nil
}

// Elements returns all elements currently matching a CSS selector
// without waiting.
func (s *Surface) Elements(ctx context.Context, selector string) (rod.Elements, error) {
	page, err := s.currentPage()
	if err != nil {
		return nil, err
	}
	return page.Context(ctx).Elements(selector)
}

// Type waits for an element and types text into it.
func (s *Surface) Type(ctx context.Context, selector, text string) error {
	el, err := s.WaitElement(ctx, selector)
	if err != nil {
		return err
	}
	return el.Input(text)
}

// Click waits for an element and clicks it.
func (s *Surface) Click(ctx context.Context, selector string) error {
	el, err := s.WaitElement(ctx, selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// AttachFile sets a local file on a file input element.
func (s *Surface) AttachFile(ctx context.Context, selector, path string) error {
	el, err := s.WaitElement(ctx, selector)
	if err != nil {
		return err
	}
	return el.SetFiles([]string{path})
}

// CurrentURL returns the working page URL.
func (s *Surface) CurrentURL() (string, error) {
	page, err := s.currentPage()
	if err != nil {
		return "", err
	}
	info, err := page.Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.URL, nil
}
