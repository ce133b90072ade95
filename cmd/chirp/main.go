package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"chirp/internal/agent"
	"chirp/internal/browser"
	"chirp/internal/config"
	"chirp/internal/logging"
	"chirp/internal/news"
	"chirp/internal/perception"
	"chirp/internal/platform"
	"chirp/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chirp",
	Short: "chirp - autonomous posting agent",
	Long: `chirp performs one decision cycle against the platform per
invocation: it either composes and publishes a new post or finds an
existing post and composes a reply, using Gemini for content and
NewsAPI for supporting media.

Designed to be driven by a scheduler (cron, GitHub Actions); it has no
interactive surface of its own.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// runCmd performs a single action cycle.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Perform one action cycle (post or reply)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCycle(cmd.Context())
	},
}

func runCycle(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	secrets := config.SecretsFromEnv()
	if err := secrets.Validate(); err != nil {
		return err
	}

	if err := logging.Initialize(cfg.Logging.Directory, logging.Settings{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		return err
	}
	defer logging.Close()

	logger.Info("starting action cycle",
		zap.String("mode", cfg.ActionMode),
		zap.String("niche", cfg.Niche))

	// Browser startup is the only fatal condition of a run.
	surface := browser.NewSurface(browser.Config{
		Bin:                 cfg.Browser.Bin,
		Headless:            cfg.Browser.Headless,
		ViewportWidth:       cfg.Browser.GetViewportWidth(),
		ViewportHeight:      cfg.Browser.GetViewportHeight(),
		NavigationTimeoutMs: cfg.Browser.NavigationTimeoutMs,
		WaitTimeoutMs:       cfg.Browser.WaitTimeoutMs,
	})
	if err := surface.Start(ctx); err != nil {
		return fmt.Errorf("could not start browser: %w", err)
	}
	defer func() {
		if err := surface.Shutdown(); err != nil {
			logger.Warn("browser shutdown", zap.Error(err))
		}
	}()

	x := platform.NewClient(surface)
	if err := x.Login(ctx, secrets.PlatformUsername, secrets.PlatformPassword); err != nil {
		logger.Error("login failed", zap.Error(err))
		return nil // run ends without a publish; not a process defect
	}

	llm := perception.NewGeminiClientWithConfig(perception.GeminiConfig{
		APIKey:  secrets.GeminiAPIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.GetLLMTimeout(),
	})

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	newsClient := news.NewClient(secrets.NewsAPIKey, cfg.News.BaseURL, cfg.GetNewsTimeout())

	deps := agent.Deps{
		LLM:      llm,
		Trends:   x,
		Timeline: x,
		News:     newsClient,
		Media:    news.NewMediaFetcher(newsClient, rng, ""),
		Pub:      x,
		Rand:     rng,
	}

	if cfg.History.DatabasePath != "" {
		st, err := store.Open(cfg.History.DatabasePath)
		if err != nil {
			logger.Warn("history store unavailable", zap.Error(err))
		} else {
			defer st.Close()
			deps.Store = st
		}
	}

	orch := agent.NewOrchestrator(cfg, deps)
	orch.LoadHistory(ctx)

	if err := orch.RunCycle(ctx); err != nil {
		logger.Error("cycle ended without confirmed publish", zap.Error(err))
		return nil
	}
	logger.Info("action cycle complete")
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "chirp.yaml", "path to run configuration")
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
