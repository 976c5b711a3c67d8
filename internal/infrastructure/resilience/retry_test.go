package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropship/backend/internal/domain/dropship"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:    3,
		BaseDelay:      5 * time.Millisecond,
		Multiplier:     2.0,
		MaxDelay:       50 * time.Millisecond,
		JitterFraction: 0,
	}
}

func TestExecutor_SucceedsFirstTry(t *testing.T) {
	exec := NewExecutor(fastConfig(), nil)

	calls := 0
	err := exec.Do(context.Background(), "get_product", func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecutor_RetriesTransient(t *testing.T) {
	exec := NewExecutor(fastConfig(), nil)

	calls := 0
	err := exec.Do(context.Background(), "search", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return dropship.NewTransientError("printful", "503", "unavailable", nil)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecutor_ExhaustsTransientAttempts(t *testing.T) {
	exec := NewExecutor(fastConfig(), nil)

	calls := 0
	err := exec.Do(context.Background(), "search", func(ctx context.Context) error {
		calls++
		return dropship.NewTransientError("printful", "503", "unavailable", nil)
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, dropship.IsKind(err, dropship.ErrorKindTransient))
}

func TestExecutor_NoRetryForNotFound(t *testing.T) {
	exec := NewExecutor(fastConfig(), nil)

	calls := 0
	err := exec.Do(context.Background(), "get_product", func(ctx context.Context) error {
		calls++
		return dropship.NewNotFoundError("printful", "404", "gone")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecutor_NoRetryForUnauthorized(t *testing.T) {
	exec := NewExecutor(fastConfig(), nil)

	calls := 0
	err := exec.Do(context.Background(), "search", func(ctx context.Context) error {
		calls++
		return dropship.NewUnauthorizedError("printful", "401", "bad token")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecutor_OrderCreationRetriedOnce(t *testing.T) {
	exec := NewExecutor(fastConfig(), nil)

	calls := 0
	err := exec.Do(context.Background(), "create_order", func(ctx context.Context) error {
		calls++
		return dropship.NewOrderCreationError("printful", "400", "rejected", `{"reason":"stock"}`)
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestExecutor_RateLimitHonorsHint(t *testing.T) {
	exec := NewExecutor(fastConfig(), nil)
	hint := 150 * time.Millisecond

	calls := 0
	start := time.Now()
	err := exec.Do(context.Background(), "search", func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return dropship.NewRateLimitedError("printful", "429", "slow down", hint)
		}
		return nil
	})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.GreaterOrEqual(t, elapsed, hint)
}

func TestExecutor_ContextCancelAbortsWait(t *testing.T) {
	exec := NewExecutor(Config{
		MaxAttempts: 3,
		BaseDelay:   5 * time.Second,
		Multiplier:  2.0,
		MaxDelay:    10 * time.Second,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- exec.Do(ctx, "search", func(ctx context.Context) error {
			calls++
			return dropship.NewTransientError("printful", "503", "unavailable", nil)
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	case <-time.After(time.Second):
		t.Fatal("executor did not abort on context cancellation")
	}
}

func TestExecutor_UnclassifiedErrorTreatedAsTransient(t *testing.T) {
	exec := NewExecutor(fastConfig(), nil)

	calls := 0
	err := exec.Do(context.Background(), "sync", func(ctx context.Context) error {
		calls++
		return errors.New("connection reset by peer")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestConfig_Validate(t *testing.T) {
	c := Config{}
	c.Validate()

	def := DefaultConfig()
	assert.Equal(t, def.MaxAttempts, c.MaxAttempts)
	assert.Equal(t, def.BaseDelay, c.BaseDelay)
	assert.Equal(t, def.Multiplier, c.Multiplier)
	assert.Equal(t, def.MaxDelay, c.MaxDelay)
	assert.Equal(t, def.JitterFraction, c.JitterFraction)
}
