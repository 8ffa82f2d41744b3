package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/riopardo/rides/internal/pkg/logger"
	"github.com/riopardo/rides/internal/utils"
)

// RateLimiterConfig contains configuration for the rate limiter
type RateLimiterConfig struct {
	RedisClient *redis.Client
	Key         string        // Key prefix for Redis
	Limit       int           // Maximum number of requests
	Period      time.Duration // Time period for the limit
}

// RateLimiterMiddleware creates a fixed window rate limiter backed by Redis.
// Callers are identified by user id when authenticated, by IP otherwise.
// An unreachable Redis lets requests through.
func RateLimiterMiddleware(config RateLimiterConfig) echo.MiddlewareFunc {
	if config.Limit <= 0 || config.RedisClient == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if config.Period <= 0 {
		config.Period = time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identifier := c.RealIP()
			if actor, ok := ActorFromContext(c); ok {
				identifier = string(actor.Role) + ":" + actor.ID
			}
			key := fmt.Sprintf("%s:%s:%s:%s", config.Key, c.Request().Method, c.Path(), identifier)
			ctx := c.Request().Context()

			var incr *redis.IntCmd
			var ttl *redis.DurationCmd
			_, err := config.RedisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				// opens the window only for the first request in it
				pipe.SetNX(ctx, key, 0, config.Period)
				incr = pipe.Incr(ctx, key)
				ttl = pipe.TTL(ctx, key)
				return nil
			})
			if err != nil {
				logger.WarnCtx(ctx, "Rate limiter unavailable, allowing request",
					logger.String("key", key),
					logger.Err(err))
				return next(c)
			}

			count := int(incr.Val())
			remaining := config.Limit - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(config.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if count > config.Limit {
				wait := ttl.Val()
				if wait < 0 {
					wait = config.Period
				}
				c.Response().Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(wait).Unix(), 10))
				c.Response().Header().Set("Retry-After", strconv.FormatInt(int64(wait.Seconds()), 10))
				return utils.TooManyRequestsResponse(c, "Rate limit exceeded")
			}

			return next(c)
		}
	}
}

// UserRateLimiter creates a user-based rate limiter
func UserRateLimiter(limit int, period time.Duration, redisClient *redis.Client) echo.MiddlewareFunc {
	return RateLimiterMiddleware(RateLimiterConfig{
		RedisClient: redisClient,
		Key:         "rate:user",
		Limit:       limit,
		Period:      period,
	})
}
