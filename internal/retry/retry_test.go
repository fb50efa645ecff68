package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func fastConfig(attempts int) Config {
	cfg := DefaultConfig()
	cfg.MaxAttempts = attempts
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 2 * time.Millisecond
	return cfg
}

func TestWithRetry_SingleAttemptDoesNotRetry(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), zerolog.Nop(), DefaultConfig(), func(ctx context.Context) error {
		calls++
		return errors.New("boom")
	})

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestWithRetry_RetriesRetryableStatus(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), zerolog.Nop(), fastConfig(3), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return NewHTTPError(http.StatusServiceUnavailable, "Service Unavailable", "")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_StopsOnNonRetryableStatus(t *testing.T) {
	calls := 0
	wrapped := errors.Join(errors.New("fetch"), NewHTTPError(http.StatusNotFound, "Not Found", ""))
	err := WithRetry(context.Background(), zerolog.Nop(), fastConfig(3), func(ctx context.Context) error {
		calls++
		return wrapped
	})

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if calls != 1 {
		t.Errorf("Expected 1 call for 404, got %d", calls)
	}
}

func TestCalculateBackoff_Capped(t *testing.T) {
	cfg := DefaultConfig()
	if got := calculateBackoff(10, cfg); got != cfg.MaxBackoff {
		t.Errorf("Expected backoff capped at %v, got %v", cfg.MaxBackoff, got)
	}
}
