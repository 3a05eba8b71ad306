package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/postboard/internal/config"
	"github.com/iliyamo/postboard/internal/logger"
)

// tokenBucket refills `refill` tokens every `interval_ms` up to `capacity`
// and takes one token per call.  State lives in a hash that expires when idle.
// Returns {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local interval = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local tokens = tonumber(redis.call('HGET', key, 'tokens'))
local last = tonumber(redis.call('HGET', key, 'last_ms'))
if tokens == nil or last == nil then
    tokens = capacity
    last = now
end

local periods = math.floor(math.max(0, now - last) / interval)
if periods > 0 then
    tokens = math.min(capacity, tokens + periods * refill)
    last = last + periods * interval
end

local allowed = 0
local retry = 0
if tokens > 0 then
    allowed = 1
    tokens = tokens - 1
else
    retry = math.max(0, interval - (now - last))
end

redis.call('HSET', key, 'tokens', tokens, 'last_ms', last)
redis.call('EXPIRE', key, ttl)
return {allowed, tokens, retry}
`)

// RateLimiter enforces a per-key token bucket stored in Redis.
type RateLimiter struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
}

func NewRateLimiter(cfg config.RateLimitConfig, rdb *redis.Client) *RateLimiter {
	return &RateLimiter{cfg: cfg, rdb: rdb}
}

type limitDecision struct {
	allowed    bool
	remaining  int64
	retryAfter time.Duration
}

func (l *RateLimiter) take(ctx context.Context, key string) (limitDecision, error) {
	res, err := tokenBucket.Run(ctx, l.rdb, []string{key},
		time.Now().UnixMilli(),
		l.cfg.Capacity,
		l.cfg.RefillTokens,
		l.cfg.RefillInterval.Milliseconds(),
		int64(l.cfg.TTL/time.Second),
	).Int64Slice()
	if err != nil {
		return limitDecision{}, err
	}
	if len(res) != 3 {
		return limitDecision{}, fmt.Errorf("ratelimit: unexpected script result %v", res)
	}
	return limitDecision{
		allowed:    res[0] == 1,
		remaining:  res[1],
		retryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}

// Middleware returns the echo middleware.  Without Redis, or when disabled,
// it passes every request through.  Redis errors fail open.
func (l *RateLimiter) Middleware() echo.MiddlewareFunc {
	if l == nil || !l.cfg.Enabled || l.rdb == nil {
		return passThrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := l.key(c)
			d, err := l.take(c.Request().Context(), key)
			if err != nil {
				logger.Warn.Printf("ratelimit: key=%s: %v", key, err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))
			if !d.allowed {
				secs := int(math.Ceil(d.retryAfter.Seconds()))
				h.Set(echo.HeaderRetryAfter, strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"detail": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}

func (l *RateLimiter) key(c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := requesterID(c)
	route := c.Request().Method + " " + c.Path()

	parts := []string{l.cfg.Prefix}
	switch l.cfg.KeyStrategy {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", uid)
	case "route":
		parts = append(parts, "route", route)
	case "ip_user":
		parts = append(parts, "ip", ip, "user", uid)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	case "user_route":
		parts = append(parts, "user", uid, "route", route)
	default:
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}
	return strings.Join(parts, ":")
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
