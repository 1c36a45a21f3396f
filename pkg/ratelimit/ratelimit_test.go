package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/gnames/accmeta/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterContract(t *testing.T) {
	var _ ratelimit.Limiter = &ratelimit.TokenBucket{}
	var _ ratelimit.Limiter = &ratelimit.FixedDelay{}
}

func TestTokenBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("burst then refill", func(t *testing.T) {
		tb := ratelimit.NewTokenBucket(5, 5)
		start := time.Now()
		for i := 0; i < 5; i++ {
			assert.Equal(t, time.Duration(0), tb.Reserve(), i)
			require.NoError(t, tb.Wait(ctx))
		}
		assert.Less(t, time.Since(start), 100*time.Millisecond)
		assert.Greater(t, tb.Reserve(), time.Duration(0))

		time.Sleep(250 * time.Millisecond)
		assert.Equal(t, time.Duration(0), tb.Reserve())
	})

	t.Run("reserve does not take a token", func(t *testing.T) {
		tb := ratelimit.NewTokenBucket(1, 1)
		assert.Equal(t, time.Duration(0), tb.Reserve())
		assert.Equal(t, time.Duration(0), tb.Reserve())
		require.NoError(t, tb.Wait(ctx))
		assert.Greater(t, tb.Reserve(), 500*time.Millisecond)
	})

	t.Run("wait respects context", func(t *testing.T) {
		tb := ratelimit.NewTokenBucket(1, 1)
		require.NoError(t, tb.Wait(ctx))

		ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, tb.Wait(ctx), context.DeadlineExceeded)
	})

	t.Run("wait gets token", func(t *testing.T) {
		tb := ratelimit.NewTokenBucket(20, 1)
		require.NoError(t, tb.Wait(ctx))
		start := time.Now()
		require.NoError(t, tb.Wait(ctx))
		assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	})
}

func TestFixedDelay(t *testing.T) {
	fd := ratelimit.NewFixedDelay(60 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, fd.Wait(ctx))
	require.NoError(t, fd.Wait(ctx))
	require.NoError(t, fd.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 120*time.Millisecond)
	assert.Greater(t, fd.Reserve(), time.Duration(0))

	zero := ratelimit.NewFixedDelay(0)
	require.NoError(t, zero.Wait(ctx))
	require.NoError(t, zero.Wait(ctx))
	assert.Equal(t, time.Duration(0), zero.Reserve())
}
