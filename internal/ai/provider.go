// Package ai defines the text-completion boundary. Everything behind the
// Provider interface (which model, which vendor) is opaque configuration;
// the pipeline only depends on the contract.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Options tunes a single completion request.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Provider represents an external text-completion service.
type Provider interface {
	// Complete sends a prompt and returns the raw response text. No format
	// guarantees: the response may contain fences, commentary, or reasoning
	// tags. Errors are either transient (retryable, see retry.IsRetryable)
	// or fatal (wrapped in FatalError).
	Complete(ctx context.Context, prompt string, opts Options) (string, error)

	// Name returns the provider's name
	Name() string
}

// Factory creates providers based on configuration
type Factory interface {
	Create(name string, config map[string]interface{}) (Provider, error)
}

// ErrProviderNotFound is returned when no provider is registered under the
// requested name.
var ErrProviderNotFound = errors.New("ai: provider not found")

// Constructor builds a provider from its configuration map.
type Constructor func(ctx context.Context, config map[string]interface{}) (Provider, error)

// DefaultFactory is a registry-backed Factory.
type DefaultFactory struct {
	constructors map[string]Constructor
}

// NewDefaultFactory creates an empty factory.
func NewDefaultFactory() *DefaultFactory {
	return &DefaultFactory{constructors: make(map[string]Constructor)}
}

// Register registers a provider constructor under a name.
func (f *DefaultFactory) Register(name string, c Constructor) {
	f.constructors[name] = c
}

// Create builds the named provider.
func (f *DefaultFactory) Create(name string, config map[string]interface{}) (Provider, error) {
	c, ok := f.constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotFound, name)
	}
	return c(context.Background(), config)
}

// FatalError marks a boundary failure that must not be retried: auth
// failures, malformed requests, unknown models. The coordinator surfaces
// these to the caller immediately.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("ai: fatal provider error: %v", e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err is (or wraps) a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// fatalMarkers are error-message substrings that indicate a non-retryable
// provider rejection rather than a transient outage.
var fatalMarkers = []string{
	"401",
	"403",
	"unauthorized",
	"forbidden",
	"invalid api key",
	"invalid_api_key",
	"invalid request",
	"model not found",
	"unsupported model",
}

// ClassifyError wraps provider errors so callers can distinguish fatal
// rejections from transient failures. Transient errors pass through
// unchanged for the backoff layer to handle.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range fatalMarkers {
		if strings.Contains(msg, marker) {
			return &FatalError{Err: err}
		}
	}
	return err
}
