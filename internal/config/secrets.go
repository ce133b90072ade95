package config

import (
	"fmt"
	"os"
	"strings"
)

// Secrets holds the opaque credentials for the run. Sourced from the
// environment at process start, owned exclusively by the process, and
// never logged.
type Secrets struct {
	GeminiAPIKey     string
	NewsAPIKey       string
	PlatformUsername string
	PlatformPassword string
}

// SecretsFromEnv reads all credentials from the environment.
func SecretsFromEnv() *Secrets {
	return &Secrets{
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		NewsAPIKey:       os.Getenv("NEWSAPI_KEY"),
		PlatformUsername: os.Getenv("TWITTER_USERNAME"),
		PlatformPassword: os.Getenv("TWITTER_PASSWORD"),
	}
}

// Validate reports which required secrets are missing. The news key is
// only required by strategies that reach the news provider, so it is
// validated lazily at the call site instead.
func (s *Secrets) Validate() error {
	var missing []string
	if s.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if s.PlatformUsername == "" {
		missing = append(missing, "TWITTER_USERNAME")
	}
	if s.PlatformPassword == "" {
		missing = append(missing, "TWITTER_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required secrets not set: %s", strings.Join(missing, ", "))
	}
	return nil
}
