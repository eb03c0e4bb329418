package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUsageTrackerBuckets(t *testing.T) {
	tracker := NewMemoryUsageTracker().(*memoryUsageTracker)
	now := time.Date(2026, 10, 18, 10, 59, 0, 0, time.UTC)
	tracker.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, tracker.Increment(ctx, "openai"))
	require.NoError(t, tracker.Increment(ctx, "openai"))

	now = now.Add(2 * time.Minute)
	require.NoError(t, tracker.Increment(ctx, "openai"))

	hourly, daily, err := tracker.Counts(ctx, "openai")
	require.NoError(t, err)
	assert.Equal(t, int64(1), hourly)
	assert.Equal(t, int64(3), daily)

	hourly, daily, err = tracker.Counts(ctx, "runway")
	require.NoError(t, err)
	assert.Zero(t, hourly)
	assert.Zero(t, daily)
}

func TestRedisUsageTracker(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tracker := NewRedisUsageTracker(rdb).(*redisUsageTracker)
	now := time.Date(2026, 10, 18, 10, 59, 0, 0, time.UTC)
	tracker.now = func() time.Time { return now }
	ctx := context.Background()

	hourly, daily, err := tracker.Counts(ctx, "openai")
	require.NoError(t, err)
	assert.Zero(t, hourly)
	assert.Zero(t, daily)

	require.NoError(t, tracker.Increment(ctx, "openai"))
	require.NoError(t, tracker.Increment(ctx, "openai"))
	now = now.Add(2 * time.Minute)
	require.NoError(t, tracker.Increment(ctx, "openai"))

	hourly, daily, err = tracker.Counts(ctx, "openai")
	require.NoError(t, err)
	assert.Equal(t, int64(1), hourly)
	assert.Equal(t, int64(3), daily)

	assert.Equal(t, 2*time.Hour, mr.TTL("ai:usage:openai:h:2026101811"))
	assert.Equal(t, 48*time.Hour, mr.TTL("ai:usage:openai:d:20261018"))
}
