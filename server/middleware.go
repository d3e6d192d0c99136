package server

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/gaborage/libris/config"
	"github.com/gaborage/libris/logger"
)

const requestBodyLimit = "1M"

// SetupMiddlewares wires the standard middleware chain onto the Echo
// instance. Order matters: the request ID must exist before logging, and
// recovery wraps everything downstream.
func SetupMiddlewares(e *echo.Echo, log logger.Logger, cfg *config.Config, healthPath, readyPath string) {
	e.Use(middleware.RequestID())
	e.Use(Logger(log, healthPath, readyPath))
	e.Use(middleware.Recover())
	e.Use(CORS(cfg))
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit(requestBodyLimit))
	e.Use(middleware.Gzip())
	if cfg.App.Rate.Limit > 0 {
		e.Use(RateLimit(cfg.App.Rate.Limit))
	}
}
