package browser

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestConfigTimeoutFallbacks(t *testing.T) {
	var c Config
	if c.NavigationTimeout() != 20*time.Second {
		t.Errorf("NavigationTimeout = %v", c.NavigationTimeout())
	}
	if c.WaitTimeout() != 20*time.Second {
		t.Errorf("WaitTimeout = %v", c.WaitTimeout())
	}

	c = Config{NavigationTimeoutMs: 5000, WaitTimeoutMs: 1500}
	if c.NavigationTimeout() != 5*time.Second {
		t.Errorf("NavigationTimeout = %v", c.NavigationTimeout())
	}
	if c.WaitTimeout() != 1500*time.Millisecond {
		t.Errorf("WaitTimeout = %v", c.WaitTimeout())
	}
}

func TestSurfaceErrorsBeforeStart(t *testing.T) {
	s := NewSurface(DefaultConfig())
	ctx := context.Background()

	if s.IsConnected() {
		t.Fatal("surface connected before Start")
	}
	if err := s.Navigate(ctx, "https://example.com"); err == nil {
		t.Error("Navigate before Start must fail")
	}
	if _, err := s.WaitElement(ctx, "body"); err == nil {
		t.Error("WaitElement before Start must fail")
	}
	if _, err := s.CurrentURL(); err == nil {
		t.Error("CurrentURL before Start must fail")
	}
	if err := s.Shutdown(); err != nil {
		t.Errorf("Shutdown before Start must be a no-op: %v", err)
	}
}

// Requires a local Chrome/Chromium. Enable with CHIRP_BROWSER_TEST=1.
func TestSurfaceLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	if os.Getenv("CHIRP_BROWSER_TEST") == "" {
		t.Skip("Skipping browser test; set CHIRP_BROWSER_TEST=1 to enable")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s := NewSurface(DefaultConfig())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Shutdown()

	if !s.IsConnected() {
		t.Fatal("surface not connected after Start")
	}
	if err := s.Navigate(ctx, "about:blank"); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	url, err := s.CurrentURL()
	if err != nil {
		t.Fatalf("CurrentURL: %v", err)
	}
	if url != "about:blank" {
		t.Errorf("url = %q", url)
	}
	if _, err := s.WaitElement(ctx, "body"); err != nil {
		t.Errorf("WaitElement(body): %v", err)
	}
}
