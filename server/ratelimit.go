package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const (
	// BurstMultiplier scales the per-second limit into the allowed burst size.
	BurstMultiplier = 2
	// RateLimitCleanup is how long an idle client entry stays in the store.
	RateLimitCleanup = time.Minute * 3
)

// RateLimit returns a per-client-IP rate limiting middleware with the
// specified requests per second. If requestsPerSecond is 0 or negative,
// rate limiting is disabled.
func RateLimit(requestsPerSecond int) echo.MiddlewareFunc {
	if requestsPerSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	config := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(requestsPerSecond),
				Burst:     requestsPerSecond * BurstMultiplier,
				ExpiresIn: RateLimitCleanup,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return tooManyRequests(c, "Rate limit exceeded")
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return tooManyRequests(c, "Too many requests")
		},
	}

	return middleware.RateLimiterWithConfig(config)
}

func tooManyRequests(c echo.Context, message string) error {
	return c.JSON(http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{
			"message":    message,
			"status":     http.StatusTooManyRequests,
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		},
	})
}
