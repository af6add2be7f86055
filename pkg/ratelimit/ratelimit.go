package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Result describes the outcome of a single Allow call
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter implements a sliding window rate limit on Redis sorted sets
type Limiter struct {
	redis       *redis.Client
	prefix      string
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

func NewLimiter(client *redis.Client, prefix string, maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		redis:       client,
		prefix:      prefix,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Allow records a request for identifier and reports whether it fits in the window
func (l *Limiter) Allow(ctx context.Context, identifier string) (Result, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", l.prefix, identifier)
	now := l.now()
	windowStart := now.Add(-l.window)

	pipe := l.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	pipe.Expire(ctx, key, l.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	count := int(countCmd.Val())
	remaining := l.maxRequests - count - 1
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count < l.maxRequests,
		Limit:     l.maxRequests,
		Remaining: remaining,
		ResetAt:   now.Add(l.window),
	}, nil
}
