package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mongo-user-service/internal/observability/metrics"
	"mongo-user-service/pkg/logger"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstCapacity     int
	Enabled           bool
}

// tokenBucketScript implements the Token Bucket algorithm in Lua for
// atomicity. Bucket state per key: {last_refill, tokens}.
const tokenBucketScript = `
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])         -- tokens per second
	local capacity = tonumber(ARGV[2])     -- max tokens in bucket
	local now = tonumber(ARGV[3])          -- current timestamp in seconds
	local requested = tonumber(ARGV[4])    -- tokens requested (always 1)

	local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
	local last_refill = tonumber(bucket[1]) or now
	local tokens = tonumber(bucket[2]) or capacity

	-- Refill based on elapsed time
	local elapsed = math.max(0, now - last_refill)
	tokens = math.min(capacity, tokens + elapsed * rate)

	if tokens >= requested then
		tokens = tokens - requested
		redis.call('HMSET', key, 'last_refill', now, 'tokens', tokens)
		redis.call('EXPIRE', key, 60)
		return 1
	end

	redis.call('HMSET', key, 'last_refill', now, 'tokens', tokens)
	redis.call('EXPIRE', key, 60)
	return 0
`

// RateLimiter limits requests per client IP using a Redis-backed token
// bucket, keyed by method, path and client IP.
type RateLimiter struct {
	client *redis.Client
	config RateLimiterConfig
	log    *zap.Logger
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		log:    log,
	}
}

// Handler returns a Gin middleware enforcing the configured rate limit.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.config.Enabled || rl.client == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:tb:%s:%s:%s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
		now := float64(time.Now().UnixNano()) / float64(time.Second)

		allowed, err := rl.client.Eval(c.Request.Context(), tokenBucketScript, []string{key},
			rl.config.RequestsPerSecond,
			rl.config.BurstCapacity,
			now,
			1,
		).Int64()
		if err != nil {
			// On Redis error, allow the request to proceed (fail open)
			rl.log.Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if allowed == 0 {
			routePath := c.FullPath()
			if routePath == "" {
				routePath = "unmatched"
			}
			metrics.RateLimitBlocked.WithLabelValues(routePath).Inc()
			logger.WithContext(c.Request.Context(), rl.log).Warn("rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate_limit_exceeded",
				"message": fmt.Sprintf("Rate limit exceeded: %.2f requests/second (burst capacity: %d)",
					rl.config.RequestsPerSecond, rl.config.BurstCapacity),
			})
			return
		}

		c.Next()
	}
}
