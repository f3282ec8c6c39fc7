package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy bounds a retried operation.
type Policy struct {
	MaxAttempts uint
	MaxElapsed  time.Duration
	Initial     time.Duration
	Max         time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		MaxElapsed:  2 * time.Second,
		Initial:     50 * time.Millisecond,
		Max:         500 * time.Millisecond,
	}
}

// Do runs op with exponential backoff until it succeeds, returns a
// Permanent error, or the policy is exhausted.
func Do[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	eb := backoff.NewExponentialBackOff()
	if p.Initial > 0 {
		eb.InitialInterval = p.Initial
	}
	if p.Max > 0 {
		eb.MaxInterval = p.Max
	}

	opts := []backoff.RetryOption{backoff.WithBackOff(eb)}
	if p.MaxAttempts > 0 {
		opts = append(opts, backoff.WithMaxTries(p.MaxAttempts))
	}
	if p.MaxElapsed > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(p.MaxElapsed))
	}

	return backoff.Retry(ctx, backoff.Operation[T](op), opts...)
}

// Permanent stops Do from retrying err.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}
