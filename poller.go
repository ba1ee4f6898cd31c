// poller.go
package pageprobe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Condition is one evaluation attempt of a retry loop. A nil return means
// satisfied. Conditions are expected to perform fresh reads on every attempt
// (re-resolving handles, re-reading properties) rather than comparing against
// a cached sample, which tolerates elements being detached and reattached
// mid-poll.
type Condition func(ctx context.Context) error

// Poll repeatedly evaluates cond, pausing interval between attempts, until it
// returns nil or timeout elapses. On expiry the error wraps ErrTimedOut and
// the last condition failure, so the message always names the actual
// mismatch. The condition is evaluated at least once.
func Poll(ctx context.Context, cond Condition, timeout, interval time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("poll cancelled: %w", err)
		}

		lastErr = cond(ctx)
		if lastErr == nil {
			return nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		pause := interval
		if pause > remaining {
			pause = remaining
		}
		timer := time.NewTimer(pause)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("poll cancelled: %w", ctx.Err())
		}
	}

	return fmt.Errorf("%w after %s: %w", ErrTimedOut, timeout, lastErr)
}

// poll runs cond under the element's own budget.
func (e *Element) poll(ctx context.Context, cond Condition) error {
	start := time.Now()
	err := Poll(ctx, cond, e.settings.Timeout, e.settings.PollInterval)
	if err != nil {
		e.logger.Debug("Poll exhausted.", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return err
	}
	e.logger.Debug("Poll satisfied.", zap.Duration("elapsed", time.Since(start)))
	return nil
}
