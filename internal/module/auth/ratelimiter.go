package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles login attempts per email using a Redis
// sliding window.
type LoginLimiter struct {
	redis  redis.UniversalClient
	limit  int64
	window time.Duration
}

// NewLoginLimiter creates a login rate limiter.
func NewLoginLimiter(client redis.UniversalClient, limit int, window time.Duration) *LoginLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{redis: client, limit: int64(limit), window: window}
}

var loginLimitScript = redis.NewScript(`
	local key = KEYS[1]
	local window_start = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local expiry = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)
	if current >= limit then
		return 0
	end

	redis.call('ZADD', key, now, now)
	redis.call('PEXPIRE', key, expiry)
	return 1
`)

// Allow records a login attempt for the given email and reports whether
// it is within the limit.
func (l *LoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	key := fmt.Sprintf("ratelimit:login:%s", email)
	now := time.Now()

	result, err := loginLimitScript.Run(ctx, l.redis, []string{key},
		now.Add(-l.window).UnixNano(),
		now.UnixNano(),
		l.limit,
		l.window.Milliseconds()+60000,
	).Result()
	if err != nil {
		return false, fmt.Errorf("login rate limit check failed: %w", err)
	}

	allowed, _ := strconv.ParseInt(fmt.Sprint(result), 10, 64)
	return allowed == 1, nil
}
