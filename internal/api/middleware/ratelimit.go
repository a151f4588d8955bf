package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"careerpilot-api/internal/logging"
	"careerpilot-api/pkg/models"
)

// RateLimit enforces a sliding-window request quota per caller, shared
// across instances through Redis. Each request is recorded in a
// per-subject sorted set scored by arrival time; entries older than the
// window are trimmed before counting, so the quota covers the trailing
// window rather than a fixed bucket. Authenticated callers are keyed by
// their auth identity, anonymous ones by client IP. A nil client
// disables limiting.
func RateLimit(client *redis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
	logger := logging.GetGlobalLogger()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if client == nil || limit <= 0 {
				return next(c)
			}

			ctx := c.Request().Context()
			key := limiterKey(identity(c))
			now := time.Now()

			pipe := client.TxPipeline()
			pipe.ZRemRangeByScore(ctx, key, "0", windowCutoff(now, window))
			pipe.ZAdd(ctx, key, redis.Z{
				Score:  float64(now.UnixNano()),
				Member: uuid.NewString(),
			})
			count := pipe.ZCard(ctx, key)
			pipe.Expire(ctx, key, window)
			if _, err := pipe.Exec(ctx); err != nil {
				// Redis being down should not take the API with it
				logger.Warn("Rate limit check failed", map[string]interface{}{
					"error": err.Error(),
				})
				return next(c)
			}

			if count.Val() > int64(limit) {
				requestID, _ := c.Get("request_id").(string)
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
					Error:     "rate_limited",
					Message:   "Too many requests",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}

			return next(c)
		}
	}
}

// identity picks the rate limit subject for a request
func identity(c echo.Context) string {
	if authID, ok := c.Get(ContextAuthID).(string); ok && authID != "" {
		return authID
	}
	return c.RealIP()
}

func limiterKey(subject string) string {
	return "ratelimit:" + subject
}

// windowCutoff is the oldest score still inside the sliding window
func windowCutoff(now time.Time, window time.Duration) string {
	return strconv.FormatInt(now.Add(-window).UnixNano(), 10)
}
