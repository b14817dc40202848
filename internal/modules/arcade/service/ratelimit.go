package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func rateLimitKey(clientID, action string) string {
	return fmt.Sprintf("rate_limit:client:%s:%s", clientID, action)
}

// CheckAndSetRateLimit reports whether clientID may perform action now and
// locks the action for the given window. A nil client disables limiting.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, clientID, action string, window time.Duration) (bool, error) {
	if rdb == nil || window <= 0 {
		return true, nil
	}

	wasSet, err := rdb.SetNX(ctx, rateLimitKey(clientID, action), "locked", window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, clientID, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, rateLimitKey(clientID, action)).Result()
}

// RateLimiter gates an action per client for a fixed window.
type RateLimiter interface {
	Allow(ctx context.Context, clientID, action string) (bool, error)
	TTL(ctx context.Context, clientID, action string) (time.Duration, error)
}

type redisRateLimiter struct {
	rdb    *redis.Client
	window time.Duration
}

// NewRedisRateLimiter returns a SetNX-backed limiter. A nil client or a
// non-positive window allows every request.
func NewRedisRateLimiter(rdb *redis.Client, window time.Duration) RateLimiter {
	return &redisRateLimiter{rdb: rdb, window: window}
}

func (l *redisRateLimiter) Allow(ctx context.Context, clientID, action string) (bool, error) {
	return CheckAndSetRateLimit(ctx, l.rdb, clientID, action, l.window)
}

func (l *redisRateLimiter) TTL(ctx context.Context, clientID, action string) (time.Duration, error) {
	return GetRateLimitTTL(ctx, l.rdb, clientID, action)
}
