package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ipLimitPrefix is the Redis key prefix for per-IP buckets.
	ipLimitPrefix = "ratelimit:ip:"
	// ipLimitTTL bounds how long an idle bucket survives.
	ipLimitTTL = 10 * time.Second
)

// RateLimitResult reports the outcome of a token bucket check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// ipBucketScript refills and consumes one token atomically. Refill is
// proportional to the seconds elapsed since the last check.
var ipBucketScript = redis.NewScript(`
	local bucket = KEYS[1]
	local rate = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local state = redis.call('HMGET', bucket, 'tokens', 'refreshed')
	local tokens = tonumber(state[1]) or capacity
	local refreshed = tonumber(state[2]) or now

	tokens = math.min(capacity, tokens + (now - refreshed) * rate)

	local allowed = 0
	local retry = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry = math.ceil((1 - tokens) / rate)
	end

	redis.call('HMSET', bucket, 'tokens', tokens, 'refreshed', now)
	redis.call('EXPIRE', bucket, ttl)

	return {allowed, retry, math.floor(tokens)}
`)

// CheckIPRateLimit runs the token bucket for one client IP. The IP is
// hashed before it becomes part of the Redis key so raw addresses are never
// stored. Errors are returned to the caller, which fails open.
func (c *Cache) CheckIPRateLimit(ctx context.Context, ip string, rps, burst int) (*RateLimitResult, error) {
	key := ipLimitPrefix + hashIP(ip)

	values, err := ipBucketScript.Run(ctx, c.client,
		[]string{key},
		rps, burst, time.Now().Unix(), int(ipLimitTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("token bucket script: %w", err)
	}

	return &RateLimitResult{
		Allowed:    values[0] == 1,
		RetryAfter: time.Duration(values[1]) * time.Second,
		Remaining:  values[2],
	}, nil
}

// hashIP returns a truncated SHA-256 of the address.
func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}
