package server

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/libris/logger"
)

// slowRequestThreshold marks requests slower than this as WARN even when the
// status is healthy.
const slowRequestThreshold = time.Second

// Logger returns a request logging middleware. Health and readiness probes
// are excluded to keep the logs useful.
func Logger(log logger.Logger, healthPath, readyPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			if path == healthPath || path == readyPath {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			latency := time.Since(start)
			status := c.Response().Status

			event := requestLogEvent(log, status, latency, err)
			if err != nil {
				event = event.Err(err)
			}

			event.
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Str("route", c.Path()).
				Int("status", status).
				Dur("latency", latency).
				Str("client_ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("Request completed")

			return err
		}
	}
}

// requestLogEvent picks the log severity from the response status and latency.
func requestLogEvent(log logger.Logger, status int, latency time.Duration, err error) logger.LogEvent {
	switch {
	case status >= 500 || (err != nil && status == 0):
		return log.Error()
	case status >= 400 || latency > slowRequestThreshold:
		return log.Warn()
	default:
		return log.Info()
	}
}
