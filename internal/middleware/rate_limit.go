package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"checky/internal/common"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RateLimiter counts hits per key in a fixed window.
type RateLimiter interface {
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit throttles per API key, or per client IP before a key is resolved.
// A limiter failure lets the request through.
func RateLimit(limiter RateLimiter, limit int, window time.Duration, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limit <= 0 {
				return next(c)
			}
			key := "ip:" + c.RealIP()
			if keyID, ok := common.GetAPIKeyIDFromContext(c.Request().Context()); ok {
				key = "key:" + keyID.String()
			}

			limited, err := limiter.IsRateLimited(c.Request().Context(), key, limit, window)
			if err != nil {
				logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
				return next(c)
			}
			if limited {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				return c.JSON(http.StatusTooManyRequests, common.CreateErrorResponse("RATE_LIMITED", "Too many requests", nil))
			}
			return next(c)
		}
	}
}
