// Package openrouter implements the ai.Provider contract against the
// OpenRouter completion API using langchaingo's OpenAI-compatible client.
package openrouter

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"

	"github.com/edgedev/renata/internal/ai"
)

// DefaultBaseURL is the OpenRouter OpenAI-compatible endpoint.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Config holds connection settings for the OpenRouter provider.
type Config struct {
	APIKey            string        `json:"api_key"`
	BaseURL           string        `json:"base_url"`
	Model             string        `json:"model"`
	Timeout           time.Duration `json:"timeout"`
	RequestsPerMinute int           `json:"requests_per_minute"`
}

// Provider calls OpenRouter through the langchain abstraction.
type Provider struct {
	llm     llms.Model
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// New creates an OpenRouter provider. A client-side rate limiter protects
// free-tier request quotas; zero RequestsPerMinute disables it.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter: API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openrouter: model is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	log.Debug().
		Str("base_url", baseURL).
		Str("model", cfg.Model).
		Dur("timeout", timeout).
		Msg("Creating OpenRouter provider")

	llm, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("openrouter: failed to initialize client: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &Provider{
		llm:     llm,
		model:   cfg.Model,
		timeout: timeout,
		limiter: limiter,
	}, nil
}

// Name returns the provider's name
func (p *Provider) Name() string {
	return "openrouter"
}

// Complete sends a single prompt and returns the raw response text. The
// fixed per-request timeout prevents indefinite blocking; errors are
// classified into fatal vs. transient before returning.
func (p *Provider) Complete(ctx context.Context, prompt string, opts ai.Options) (string, error) {
	if prompt == "" {
		return "", &ai.FatalError{Err: fmt.Errorf("openrouter: empty prompt")}
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	callOptions := []llms.CallOption{
		llms.WithTemperature(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		callOptions = append(callOptions, llms.WithMaxTokens(opts.MaxTokens))
	}

	start := time.Now()
	response, err := llms.GenerateFromSinglePrompt(ctx, p.llm, prompt, callOptions...)
	if err != nil {
		log.Error().Err(err).
			Str("model", p.model).
			Dur("elapsed", time.Since(start)).
			Msg("OpenRouter completion failed")
		return "", ai.ClassifyError(err)
	}

	log.Debug().
		Str("model", p.model).
		Int("prompt_chars", len(prompt)).
		Int("response_chars", len(response)).
		Dur("elapsed", time.Since(start)).
		Msg("OpenRouter completion succeeded")

	return response, nil
}

// FromConfigMap builds a provider from a generic configuration map, for use
// with the ai.DefaultFactory registry.
func FromConfigMap(_ context.Context, config map[string]interface{}) (ai.Provider, error) {
	cfg := Config{}
	if v, ok := config["api_key"].(string); ok {
		cfg.APIKey = v
	}
	if v, ok := config["base_url"].(string); ok {
		cfg.BaseURL = v
	}
	if v, ok := config["model"].(string); ok {
		cfg.Model = v
	}
	if v, ok := config["timeout_seconds"].(int); ok {
		cfg.Timeout = time.Duration(v) * time.Second
	}
	if v, ok := config["requests_per_minute"].(int); ok {
		cfg.RequestsPerMinute = v
	}
	return New(cfg)
}
