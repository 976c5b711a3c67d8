// Package resilience implements the retry policy applied to provider calls.
//
// Failures are classified by the domain's error taxonomy and each kind gets
// its own policy: transient failures back off exponentially, rate-limit
// failures honour the provider's wait hint, order-creation failures get at
// most one extra attempt, and everything else fails fast.
package resilience

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/dropship/backend/internal/domain/dropship"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// Config controls the retry executor.
type Config struct {
	// MaxAttempts is the total number of attempts for transient and
	// rate-limited failures (first try included).
	MaxAttempts int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// Multiplier scales the delay after each failed attempt.
	Multiplier float64
	// MaxDelay caps the computed delay.
	MaxDelay time.Duration
	// JitterFraction randomizes each delay by +/- this fraction.
	JitterFraction float64
}

// DefaultConfig returns the standard provider retry policy.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		BaseDelay:      500 * time.Millisecond,
		Multiplier:     2.0,
		MaxDelay:       10 * time.Second,
		JitterFraction: 0.2,
	}
}

// Validate fills zero values with defaults.
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.MaxAttempts < 1 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = def.BaseDelay
	}
	if c.Multiplier < 1 {
		c.Multiplier = def.Multiplier
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = def.MaxDelay
	}
	if c.JitterFraction < 0 || c.JitterFraction >= 1 {
		c.JitterFraction = def.JitterFraction
	}
}

// ---------------------------------------------------------------------------
// Executor
// ---------------------------------------------------------------------------

// Executor runs operations under the retry policy.
type Executor struct {
	config Config
	logger *zap.Logger
}

// NewExecutor creates an executor with the given config.
func NewExecutor(config Config, logger *zap.Logger) *Executor {
	config.Validate()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{config: config, logger: logger}
}

// Do runs op, retrying according to the failure kind of the returned error.
// The last error is returned unchanged so callers keep the full taxonomy.
// A cancelled context aborts immediately, including mid-wait.
func (e *Executor) Do(ctx context.Context, operation string, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		kind := dropship.KindOf(lastErr)
		if !kind.Retryable() || attempt >= e.maxAttempts(kind) {
			return lastErr
		}

		delay := e.delayFor(kind, attempt, lastErr)
		e.logger.Warn("provider call failed, retrying",
			zap.String("operation", operation),
			zap.String("kind", kind.String()),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(lastErr),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
	}
}

// maxAttempts returns the attempt budget for a failure kind. Order creation
// is never retried more than once: the provider may have partially processed
// the order, so a second failure must surface to a human.
func (e *Executor) maxAttempts(kind dropship.ErrorKind) int {
	if kind == dropship.ErrorKindOrderCreation {
		return 2
	}
	return e.config.MaxAttempts
}

// delayFor computes the wait before the next attempt. Rate-limit hints from
// the provider set a floor under the computed backoff.
func (e *Executor) delayFor(kind dropship.ErrorKind, attempt int, err error) time.Duration {
	delay := e.config.BaseDelay
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * e.config.Multiplier)
	}
	if delay > e.config.MaxDelay {
		delay = e.config.MaxDelay
	}

	if e.config.JitterFraction > 0 {
		spread := float64(delay) * e.config.JitterFraction
		delay += time.Duration((rand.Float64()*2 - 1) * spread)
	}

	if kind == dropship.ErrorKindRateLimited {
		if pe, ok := dropship.AsProviderError(err); ok && pe.RetryAfter > delay {
			delay = pe.RetryAfter
		}
	}
	if delay < 0 {
		delay = 0
	}
	return delay
}
