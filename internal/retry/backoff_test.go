package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func quickConfig() Config {
	return Config{
		MaxRetries: 2,
		BaseDelay:  5 * time.Millisecond,
		MaxDelay:   50 * time.Millisecond,
		Multiplier: 2.0,
		Jitter:     false, // Disable jitter for predictable testing
		LogRetries: false,
	}
}

func TestLLMConfig(t *testing.T) {
	config := LLMConfig()

	if config.MaxRetries != 3 {
		t.Errorf("Expected MaxRetries=3, got %d", config.MaxRetries)
	}
	if config.BaseDelay != 2*time.Second {
		t.Errorf("Expected BaseDelay=2s, got %v", config.BaseDelay)
	}
	if config.MaxDelay != 60*time.Second {
		t.Errorf("Expected MaxDelay=60s, got %v", config.MaxDelay)
	}
	if config.Multiplier != 2.5 {
		t.Errorf("Expected Multiplier=2.5, got %f", config.Multiplier)
	}
	if !config.Jitter {
		t.Error("Expected Jitter=true")
	}
}

func TestDo_SuccessFirstAttempt(t *testing.T) {
	result := Do(context.Background(), quickConfig(), func() error {
		return nil
	}, nil)

	if !result.Success {
		t.Error("Expected success=true")
	}
	if result.Attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", result.Attempts)
	}
	if result.LastError != nil {
		t.Errorf("Expected no error, got %v", result.LastError)
	}
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	calls := 0
	result := Do(context.Background(), quickConfig(), func() error {
		calls++
		if calls < 3 {
			return errors.New("503 service unavailable")
		}
		return nil
	}, nil)

	if !result.Success {
		t.Error("Expected success=true after retries")
	}
	if result.Attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", result.Attempts)
	}
	if len(result.Reasons) != 2 {
		t.Errorf("Expected 2 retry reasons, got %d", len(result.Reasons))
	}
}

func TestDo_ExhaustsRetries(t *testing.T) {
	result := Do(context.Background(), quickConfig(), func() error {
		return errors.New("rate limit exceeded")
	}, nil)

	if result.Success {
		t.Error("Expected success=false")
	}
	if result.Attempts != 3 { // MaxRetries=2 means 3 total attempts
		t.Errorf("Expected 3 attempts, got %d", result.Attempts)
	}
	if result.LastError == nil {
		t.Error("Expected LastError to be set")
	}
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	result := Do(context.Background(), quickConfig(), func() error {
		calls++
		return errors.New("401 unauthorized: invalid api key")
	}, nil)

	if result.Success {
		t.Error("Expected success=false")
	}
	if calls != 1 {
		t.Errorf("Expected exactly 1 call for non-retryable error, got %d", calls)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	result := Do(ctx, quickConfig(), func() error {
		calls++
		cancel()
		return errors.New("connection refused")
	}, nil)

	if result.Success {
		t.Error("Expected success=false after cancellation")
	}
	if calls != 1 {
		t.Errorf("Expected 1 call before cancellation took effect, got %d", calls)
	}
	if !errors.Is(result.LastError, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", result.LastError)
	}
}

func TestCalculateDelay_ExponentialGrowth(t *testing.T) {
	config := Config{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
		Jitter:     false,
	}

	d0 := calculateDelay(config, 0)
	d1 := calculateDelay(config, 1)
	d2 := calculateDelay(config, 2)

	if d0 != 100*time.Millisecond {
		t.Errorf("Expected 100ms for attempt 0, got %v", d0)
	}
	if d1 != 200*time.Millisecond {
		t.Errorf("Expected 200ms for attempt 1, got %v", d1)
	}
	if d2 != 400*time.Millisecond {
		t.Errorf("Expected 400ms for attempt 2, got %v", d2)
	}
}

func TestCalculateDelay_CappedAtMax(t *testing.T) {
	config := Config{
		BaseDelay:  1 * time.Second,
		MaxDelay:   2 * time.Second,
		Multiplier: 10.0,
		Jitter:     false,
	}

	if d := calculateDelay(config, 5); d != 2*time.Second {
		t.Errorf("Expected delay capped at 2s, got %v", d)
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		err       error
		retryable bool
	}{
		{nil, false},
		{errors.New("429 Too Many Requests"), true},
		{errors.New("connection refused"), true},
		{errors.New("Rate Limit hit"), true},
		{errors.New("503 Service Unavailable"), true},
		{errors.New("401 unauthorized"), false},
		{errors.New("invalid request: missing model"), false},
	}

	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.retryable {
			t.Errorf("IsRetryable(%v) = %v, want %v", tc.err, got, tc.retryable)
		}
	}
}
