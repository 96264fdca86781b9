package rate_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/go-task-server/internal/rate"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const (
	testEmail = "test@example.com"
	testIP    = "203.0.113.7"
)

func setupLimiter(t *testing.T, cfg rate.Config) (*rate.Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return rate.New(client, cfg), mr
}

func TestCheckLoginWithinBudget(t *testing.T) {
	limiter, _ := setupLimiter(t, rate.Config{MaxLoginAttempts: 3, LoginCooldown: time.Minute})
	ctx := context.Background()

	require.NoError(t, limiter.CheckLogin(ctx, testEmail, testIP))

	require.NoError(t, limiter.IncrementLogin(ctx, testEmail, testIP))
	require.NoError(t, limiter.IncrementLogin(ctx, testEmail, testIP))
	require.NoError(t, limiter.CheckLogin(ctx, testEmail, testIP))
}

func TestCheckLoginBudgetExhausted(t *testing.T) {
	limiter, _ := setupLimiter(t, rate.Config{MaxLoginAttempts: 3, LoginCooldown: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.IncrementLogin(ctx, testEmail, testIP))
	}

	require.ErrorIs(t, limiter.CheckLogin(ctx, testEmail, testIP), rate.ErrRateLimited)

	// A different email is unaffected.
	require.NoError(t, limiter.CheckLogin(ctx, "other@example.com", testIP))
}

func TestIncrementLoginReportsOverrun(t *testing.T) {
	limiter, _ := setupLimiter(t, rate.Config{MaxLoginAttempts: 2, LoginCooldown: time.Minute})
	ctx := context.Background()

	require.NoError(t, limiter.IncrementLogin(ctx, testEmail, testIP))
	require.NoError(t, limiter.IncrementLogin(ctx, testEmail, testIP))
	require.ErrorIs(t, limiter.IncrementLogin(ctx, testEmail, testIP), rate.ErrRateLimited)
}

func TestResetLoginClearsCounters(t *testing.T) {
	limiter, _ := setupLimiter(t, rate.Config{MaxLoginAttempts: 2, LoginCooldown: time.Minute})
	ctx := context.Background()

	require.NoError(t, limiter.IncrementLogin(ctx, testEmail, testIP))
	require.NoError(t, limiter.IncrementLogin(ctx, testEmail, testIP))
	require.ErrorIs(t, limiter.CheckLogin(ctx, testEmail, testIP), rate.ErrRateLimited)

	require.NoError(t, limiter.ResetLogin(ctx, testEmail, testIP))
	require.NoError(t, limiter.CheckLogin(ctx, testEmail, testIP))
}

func TestCooldownExpiresCounters(t *testing.T) {
	limiter, mr := setupLimiter(t, rate.Config{MaxLoginAttempts: 2, LoginCooldown: time.Minute})
	ctx := context.Background()

	require.NoError(t, limiter.IncrementLogin(ctx, testEmail, testIP))
	require.NoError(t, limiter.IncrementLogin(ctx, testEmail, testIP))
	require.ErrorIs(t, limiter.CheckLogin(ctx, testEmail, testIP), rate.ErrRateLimited)

	mr.FastForward(2 * time.Minute)

	require.NoError(t, limiter.CheckLogin(ctx, testEmail, testIP))
}

func TestIPThrottleSpansEmails(t *testing.T) {
	limiter, _ := setupLimiter(t, rate.Config{EnableIPThrottle: true, MaxLoginAttempts: 2, LoginCooldown: time.Minute})
	ctx := context.Background()

	require.NoError(t, limiter.IncrementLogin(ctx, "a@example.com", testIP))
	require.NoError(t, limiter.IncrementLogin(ctx, "b@example.com", testIP))

	// Both per-email counters are below the budget; the shared IP counter
	// is not.
	require.ErrorIs(t, limiter.CheckLogin(ctx, "c@example.com", testIP), rate.ErrRateLimited)
}

func TestRedisUnavailable(t *testing.T) {
	limiter, mr := setupLimiter(t, rate.Config{MaxLoginAttempts: 2, LoginCooldown: time.Minute})
	ctx := context.Background()

	mr.Close()

	require.ErrorIs(t, limiter.CheckLogin(ctx, testEmail, testIP), rate.ErrRedisUnavailable)
	require.ErrorIs(t, limiter.IncrementLogin(ctx, testEmail, testIP), rate.ErrRedisUnavailable)
	require.ErrorIs(t, limiter.ResetLogin(ctx, testEmail, testIP), rate.ErrRedisUnavailable)
}
