package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(&HTTPError{StatusCode: 400}))
	assert.False(t, IsRetryable(&HTTPError{StatusCode: 401}))

	for _, code := range []int{429, 500, 502, 503, 504} {
		assert.True(t, IsRetryable(&HTTPError{StatusCode: code}), "status %d", code)
	}

	// Wrapped HTTP errors still classify.
	wrapped := fmt.Errorf("request failed: %w", &HTTPError{StatusCode: 503})
	assert.True(t, IsRetryable(wrapped))
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, time.Duration(0), ParseRetryAfter(""))
	assert.Equal(t, time.Duration(0), ParseRetryAfter("garbage"))
	assert.Equal(t, 7*time.Second, ParseRetryAfter("7"))
	assert.Equal(t, time.Duration(0), ParseRetryAfter("-3"))

	// HTTP dates in the past collapse to zero.
	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC1123)
	assert.Equal(t, time.Duration(0), ParseRetryAfter(past))

	future := time.Now().Add(time.Minute).UTC().Format(time.RFC1123)
	d := ParseRetryAfter(future)
	assert.Greater(t, d, 50*time.Second)
	assert.LessOrEqual(t, d, time.Minute)
}

func TestFullJitterSleepBounds(t *testing.T) {
	base := 100 * time.Millisecond
	max := 300 * time.Millisecond

	for attempt := 0; attempt < 6; attempt++ {
		for i := 0; i < 50; i++ {
			d := FullJitterSleep(attempt, base, max)
			assert.GreaterOrEqual(t, d, time.Duration(0))
			assert.LessOrEqual(t, d, max)
		}
	}

	assert.Equal(t, time.Duration(0), FullJitterSleep(3, 0, max))
}

func TestDoReturnsImmediatelyOnNonRetryable(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Options{MaxRetries: 5, BaseDelay: time.Millisecond}, func() error {
		calls++
		return &HTTPError{StatusCode: 400}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Options{MaxRetries: 5, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return &HTTPError{StatusCode: 503}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Options{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}, func() error {
		calls++
		return &HTTPError{StatusCode: 500}
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, 500, he.StatusCode)
}

func TestDoStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, Options{MaxRetries: 3, BaseDelay: time.Millisecond}, func() error {
		calls++
		return &HTTPError{StatusCode: 500}
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}
