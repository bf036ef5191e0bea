package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type flagged struct{ retry bool }

func (f flagged) Error() string   { return "flagged" }
func (f flagged) Retryable() bool { return f.retry }

func fastConfig(attempts int) Config {
	cfg := DefaultConfig()
	cfg.MaxAttempts = attempts
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 2 * time.Millisecond
	return cfg
}

func TestWithRetry_SucceedsAfterRetryableFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(3), func(attempt int) error {
		calls++
		assert.Equal(t, calls, attempt)
		if attempt < 3 {
			return flagged{retry: true}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnTerminalError(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(5), func(int) error {
		calls++
		return flagged{retry: false}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_Exhausted(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(2), func(int) error {
		calls++
		return flagged{retry: true}
	})
	assert.Equal(t, 2, calls)
	assert.ErrorAs(t, err, new(flagged))
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestWithRetry_SingleAttemptReturnsErrorUnwrapped(t *testing.T) {
	want := flagged{retry: true}
	err := WithRetry(context.Background(), fastConfig(1), func(int) error { return want })
	assert.Equal(t, want, err)
}

func TestWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	cfg := fastConfig(3)
	cfg.InitialBackoff = time.Hour
	cfg.MaxBackoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	err := WithRetry(ctx, cfg, func(int) error {
		cancel()
		return flagged{retry: true}
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShouldRetry(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, ShouldRetry(nil, cfg))
	assert.False(t, ShouldRetry(errors.New("plain"), cfg))
	assert.False(t, ShouldRetry(context.Canceled, cfg))
	assert.True(t, ShouldRetry(context.DeadlineExceeded, cfg))
	assert.True(t, ShouldRetry(NewHTTPError(http.StatusTooManyRequests, "429", ""), cfg))
	assert.False(t, ShouldRetry(NewHTTPError(http.StatusNotFound, "404", ""), cfg))
	assert.True(t, ShouldRetry(flagged{retry: true}, cfg))
}

func TestBackoff(t *testing.T) {
	cfg := Config{InitialBackoff: time.Second, MaxBackoff: 5 * time.Second, Multiplier: 2}
	assert.Equal(t, time.Second, Backoff(0, cfg))
	assert.Equal(t, 4*time.Second, Backoff(2, cfg))
	assert.Equal(t, 5*time.Second, Backoff(10, cfg))
}
