// Package llm wraps an ai.Provider with retries, per-request timeouts,
// and session logging so callers see a single blocking Generate call.
package llm

import (
	"context"
	"time"

	"github.com/edgedev/renata/internal/ai"
	"github.com/edgedev/renata/internal/logging"
	"github.com/edgedev/renata/internal/retry"
)

// ResilientClient adds retry and timeout handling on top of a provider.
type ResilientClient struct {
	provider    ai.Provider
	retryConfig retry.Config
	timeout     time.Duration
	logger      *logging.SessionLogger
}

// RetryMeta describes how much work a single Generate call took.
type RetryMeta struct {
	Attempts      int
	TotalDuration time.Duration
	Reasons       []string
}

// NewResilientClient creates a client with the given retry configuration.
// A non-positive timeout disables the per-request deadline.
func NewResilientClient(provider ai.Provider, config retry.Config, timeout time.Duration, logger *logging.SessionLogger) *ResilientClient {
	return &ResilientClient{
		provider:    provider,
		retryConfig: config,
		timeout:     timeout,
		logger:      logger,
	}
}

// NewResilientClientWithDefaults creates a client with the default LLM
// retry configuration and a 120 second request deadline.
func NewResilientClientWithDefaults(provider ai.Provider, logger *logging.SessionLogger) *ResilientClient {
	return NewResilientClient(provider, retry.LLMConfig(), 120*time.Second, logger)
}

// Generate sends the prompt through the provider, retrying transient
// failures. Fatal provider errors (bad credentials, unknown model) abort
// immediately without consuming the retry budget.
func (rc *ResilientClient) Generate(ctx context.Context, prompt string, opts ai.Options) (string, RetryMeta, error) {
	var response string

	operation := func() error {
		callCtx := ctx
		if rc.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, rc.timeout)
			defer cancel()
		}

		out, err := rc.provider.Complete(callCtx, prompt, opts)
		if err != nil {
			return err
		}
		response = out
		return nil
	}

	result := retry.Do(ctx, rc.retryConfig, operation, rc.logger)

	meta := RetryMeta{
		Attempts:      result.Attempts,
		TotalDuration: result.TotalDuration,
		Reasons:       result.Reasons,
	}

	if !result.Success {
		rc.logger.LogError("generation", result.LastError)
		return "", meta, result.LastError
	}
	return response, meta, nil
}
