package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config holds retry configuration.
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// Option is a functional option for retry configuration.
type Option func(*Config)

func newConfig(opts []Option) *Config {
	cfg := &Config{
		MaxRetries:   5,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *Config) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.InitialDelay
	b.MaxInterval = c.MaxDelay
	b.Multiplier = c.Multiplier
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// WithExponentialBackoff executes the operation with exponential backoff retry.
// It retries the operation up to MaxRetries times, with exponentially increasing
// delays between attempts. Context cancellation is respected throughout.
//
// Errors wrapped with Fatal() are not retried.
func WithExponentialBackoff(ctx context.Context, operation func() error, opts ...Option) error {
	cfg := newConfig(opts)

	attempts := 0
	var lastErr error
	policy := backoff.WithContext(backoff.WithMaxRetries(cfg.backOff(), uint64(max(cfg.MaxRetries, 0))), ctx)
	err := backoff.Retry(func() error {
		attempts++
		err := operation()
		if err != nil {
			lastErr = err
			if IsFatal(err) {
				return backoff.Permanent(err)
			}
		}
		return err
	}, policy)

	switch {
	case err == nil:
		return nil
	case IsFatal(err):
		return fmt.Errorf("fatal error (not retrying): %w", err)
	case ctx.Err() != nil:
		return fmt.Errorf("context cancelled after %d attempts: %w", attempts, errors.Join(ctx.Err(), lastErr))
	default:
		return fmt.Errorf("operation failed after %d attempts: %w", attempts, err)
	}
}

// Poll calls condition until it reports done, returns an error, or ctx ends.
// Delays between calls grow from InitialDelay to MaxDelay; MaxRetries is
// ignored.
func Poll(ctx context.Context, condition func(ctx context.Context) (bool, error), opts ...Option) error {
	cfg := newConfig(opts)

	errNotDone := errors.New("condition not met")
	err := backoff.Retry(func() error {
		done, err := condition(ctx)
		switch {
		case err != nil:
			return backoff.Permanent(err)
		case !done:
			return errNotDone
		}
		return nil
	}, backoff.WithContext(cfg.backOff(), ctx))

	if errors.Is(err, errNotDone) || (err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err())) {
		return fmt.Errorf("gave up waiting: %w", ctx.Err())
	}
	return err
}

// WithMaxRetries sets the maximum number of retries.
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// WithInitialDelay sets the initial delay between retries.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = d
	}
}

// WithMaxDelay sets the maximum delay between retries.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

// WithMultiplier sets the backoff multiplier.
func WithMultiplier(m float64) Option {
	return func(c *Config) {
		c.Multiplier = m
	}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
// Operations that encounter fatal errors will not be retried.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
