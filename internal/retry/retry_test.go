package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithRetry_SucceedsOnSecondAttempt(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), RetryConfig{MaxAttempts: 2}, func(attempt int) error {
		calls++
		if attempt == 1 {
			return errors.New("timeout")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestWithRetry_StopsAfterMaxAttempts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := WithRetry(context.Background(), RetryConfig{MaxAttempts: 2}, func(int) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 2, calls)
}

func TestWithRetry_PermanentIsNotRetried(t *testing.T) {
	stop := errors.New("budget gone")
	calls := 0
	err := WithRetry(context.Background(), RetryConfig{MaxAttempts: 5}, func(int) error {
		calls++
		return Permanent(stop)
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 1, calls)
}

func TestWithRetry_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, RetryConfig{MaxAttempts: 3, Delay: time.Hour}, func(int) error {
		return errors.New("fail")
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPermanent_Nil(t *testing.T) {
	require.NoError(t, Permanent(nil))
}
