// Package retry runs fallible operations again with an increasing delay.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/goodnatureofminers/walletmigrate-backend/internal/clock"
)

const (
	DefaultAttempts     = 3
	DefaultInitialDelay = 1 * time.Second
	DefaultMultiplier   = 2.0
	DefaultMaxDelay     = 30 * time.Second
)

// Observer is notified before each retry with the number of the attempt that
// just failed, the delay about to be awaited and the error of that attempt.
type Observer func(attempt int, delay time.Duration, err error)

// Policy describes how often and how patiently an operation is retried.
// Attempts counts the first call, so Attempts == 1 disables retries.
type Policy struct {
	Attempts     int
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Sleep        clock.Sleeper
}

// DefaultPolicy returns three attempts starting at a one second delay.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:     DefaultAttempts,
		InitialDelay: DefaultInitialDelay,
		Multiplier:   DefaultMultiplier,
		MaxDelay:     DefaultMaxDelay,
	}
}

// Once returns a policy that calls the operation a single time.
func Once() Policy {
	return Policy{Attempts: 1}
}

// Permanent marks err as not worth retrying. Do returns the wrapped error as is.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

func (p Policy) backOff() backoff.BackOff {
	if p.Attempts <= 1 {
		return &backoff.StopBackOff{}
	}
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialDelay
	exp.Multiplier = multiplier
	exp.RandomizationFactor = 0
	exp.MaxInterval = p.MaxDelay
	if exp.MaxInterval < exp.InitialInterval {
		exp.MaxInterval = exp.InitialInterval
	}
	exp.MaxElapsedTime = 0

	b := backoff.WithMaxRetries(exp, uint64(p.Attempts-1))
	b.Reset()
	return b
}

// Do calls op until it succeeds, returns a permanent error, the context ends
// or the policy runs out of attempts. The last error is returned.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error), observe Observer) (T, error) {
	b := p.backOff()
	sleep := p.Sleep
	if sleep == nil {
		sleep = clock.SleepWithContext
	}

	for attempt := 1; ; attempt++ {
		res, err := op(ctx)
		if err == nil {
			return res, nil
		}

		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return res, permanent.Err
		}
		if ctx.Err() != nil {
			return res, err
		}

		delay := b.NextBackOff()
		if delay == backoff.Stop {
			return res, err
		}
		if observe != nil {
			observe(attempt, delay, err)
		}
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return res, errors.Join(err, sleepErr)
		}
	}
}

// DoErr is Do for operations without a result.
func DoErr(ctx context.Context, p Policy, op func(context.Context) error, observe Observer) error {
	_, err := Do(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	}, observe)
	return err
}
