// poller_test.go
package pageprobe

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollSucceedsOnceConditionHolds(t *testing.T) {
	attempts := 0
	cond := func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("attempt %d not ready", attempts)
		}
		return nil
	}

	err := Poll(context.Background(), cond, 500*time.Millisecond, 5*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestPollSurfacesLastConditionError(t *testing.T) {
	attempts := 0
	cond := func(ctx context.Context) error {
		attempts++
		return fmt.Errorf("mismatch on attempt %d", attempts)
	}

	err := Poll(context.Background(), cond, 40*time.Millisecond, 5*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimedOut)
	// The final message names the actual mismatch, not a generic timeout.
	assert.Contains(t, err.Error(), fmt.Sprintf("mismatch on attempt %d", attempts))
	assert.Greater(t, attempts, 1)
}

func TestPollEvaluatesAtLeastOnce(t *testing.T) {
	attempts := 0
	cond := func(ctx context.Context) error {
		attempts++
		return nil
	}

	err := Poll(context.Background(), cond, time.Nanosecond, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestPollHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Poll(ctx, func(ctx context.Context) error { return errors.New("never") }, time.Minute, time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimedOut)
}

func TestPollCancelledMidSleepReturnsPromptly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := Poll(ctx, func(ctx context.Context) error { return errors.New("never") }, time.Minute, time.Minute)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 10*time.Second)
}
