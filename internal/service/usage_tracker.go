package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// UsageTracker counts generation requests per provider in hourly and daily
// buckets.
type UsageTracker interface {
	Increment(ctx context.Context, provider string) error
	Counts(ctx context.Context, provider string) (hourly, daily int64, err error)
}

func hourBucket(provider string, t time.Time) string {
	return fmt.Sprintf("ai:usage:%s:h:%s", provider, t.UTC().Format("2006010215"))
}

func dayBucket(provider string, t time.Time) string {
	return fmt.Sprintf("ai:usage:%s:d:%s", provider, t.UTC().Format("20060102"))
}

type redisUsageTracker struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisUsageTracker(rdb *redis.Client) UsageTracker {
	return &redisUsageTracker{rdb: rdb, now: time.Now}
}

func (t *redisUsageTracker) Increment(ctx context.Context, provider string) error {
	now := t.now()
	hourKey, dayKey := hourBucket(provider, now), dayBucket(provider, now)

	pipe := t.rdb.TxPipeline()
	pipe.Incr(ctx, hourKey)
	pipe.Expire(ctx, hourKey, 2*time.Hour)
	pipe.Incr(ctx, dayKey)
	pipe.Expire(ctx, dayKey, 48*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("incrementing usage for %s: %w", provider, err)
	}
	return nil
}

func (t *redisUsageTracker) Counts(ctx context.Context, provider string) (int64, int64, error) {
	now := t.now()
	values, err := t.rdb.MGet(ctx, hourBucket(provider, now), dayBucket(provider, now)).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("reading usage for %s: %w", provider, err)
	}

	counts := make([]int64, 2)
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("parsing usage for %s: %w", provider, err)
		}
		counts[i] = n
	}
	return counts[0], counts[1], nil
}

// memoryUsageTracker is used when no Redis is configured.
type memoryUsageTracker struct {
	mu     sync.Mutex
	counts map[string]int64
	now    func() time.Time
}

func NewMemoryUsageTracker() UsageTracker {
	return &memoryUsageTracker{counts: make(map[string]int64), now: time.Now}
}

func (t *memoryUsageTracker) Increment(_ context.Context, provider string) error {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[hourBucket(provider, now)]++
	t.counts[dayBucket(provider, now)]++
	return nil
}

func (t *memoryUsageTracker) Counts(_ context.Context, provider string) (int64, int64, error) {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[hourBucket(provider, now)], t.counts[dayBucket(provider, now)], nil
}
