// Package clock provides helpers for time-related operations.
package clock

import (
	"context"
	"time"
)

// Sleeper waits for a duration or until the context ends.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepWithContext waits for the duration or returns early if the context is canceled.
// A non-positive duration only checks the context.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoSleep returns immediately unless the context is already done.
func NoSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
