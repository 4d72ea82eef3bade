package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/edgedev/renata/internal/ai"
	"github.com/edgedev/renata/internal/ai/openrouter"
	"github.com/edgedev/renata/internal/config"
	"github.com/edgedev/renata/internal/logging"
	"github.com/edgedev/renata/internal/transform"
)

// loadConfig loads and validates configuration and sets up logging for a
// command invocation.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logging.Setup(c.Bool("verbose"))
	return cfg, nil
}

// providerFactory registers every available provider. OpenRouter is the
// only one today; the registry keeps the wiring in one place for when
// direct vendor endpoints get added.
func providerFactory() *ai.DefaultFactory {
	factory := ai.NewDefaultFactory()
	factory.Register("openrouter", openrouter.FromConfigMap)
	return factory
}

// buildService assembles the transform service against OpenRouter.
func buildService(cfg *config.Config) (*transform.Service, error) {
	provider, err := providerFactory().Create("openrouter", map[string]interface{}{
		"api_key":             cfg.LLM.APIKey,
		"base_url":            cfg.LLM.BaseURL,
		"model":               cfg.LLM.Model,
		"timeout_seconds":     cfg.LLM.TimeoutSeconds,
		"requests_per_minute": cfg.LLM.RequestsPerMinute,
	})
	if err != nil {
		return nil, err
	}
	return transform.NewService(cfg, provider)
}
