// Package server provides HTTP server functionality using the Echo framework.
// It includes middleware setup, typed request handling, and the standardized
// response envelope.
package server

import (
	"context"
	goerrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/libris/config"
	"github.com/gaborage/libris/logger"
)

const (
	defaultHealthRoute = "/health"
	defaultReadyRoute  = "/ready"
)

// ReadinessCheck reports whether a dependency is ready to serve traffic.
// The readiness endpoint runs every registered check and degrades to 503
// when any of them fails.
type ReadinessCheck func(ctx context.Context) error

// Server represents an HTTP server instance with Echo framework.
// It manages server lifecycle, configuration, and request handling.
type Server struct {
	echo      *echo.Echo
	cfg       *config.Config
	logger    logger.Logger
	basePath  string
	readiness []ReadinessCheck
}

// normalizeBasePath ensures the base path starts with "/" and doesn't end with "/"
// unless it's the root path. Empty string is returned as-is (no prefix).
func normalizeBasePath(basePath string) string {
	if basePath == "" {
		return ""
	}

	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}

	if len(basePath) > 1 {
		basePath = strings.TrimRight(basePath, "/")
	}

	return basePath
}

// buildFullPath combines the base path with a route path.
func (s *Server) buildFullPath(route string) string {
	if s.basePath == "" || s.basePath == "/" {
		return route
	}

	if route == "/" {
		return s.basePath
	}

	return s.basePath + route
}

// New creates a new HTTP server instance with the given configuration and logger.
// It initializes Echo with middlewares, error handling, and health check endpoints.
func New(cfg *config.Config, log logger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		customErrorHandler(err, c, cfg)
	}
	e.Validator = NewValidator()

	s := &Server{
		echo:     e,
		cfg:      cfg,
		logger:   log,
		basePath: normalizeBasePath(cfg.Server.Path.Base),
	}

	healthPath := s.buildFullPath(defaultHealthRoute)
	readyPath := s.buildFullPath(defaultReadyRoute)

	SetupMiddlewares(e, log, cfg, healthPath, readyPath)

	e.GET(healthPath, s.healthCheck)
	e.GET(readyPath, s.readyCheck)

	log.Debug().
		Str("base_path", s.basePath).
		Str("health_path", healthPath).
		Str("ready_path", readyPath).
		Msg("Server paths configured")

	return s
}

// Echo returns the underlying Echo instance for route registration.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// ModuleGroup returns an Echo group with the base path applied for module
// route registration.
func (s *Server) ModuleGroup() *echo.Group {
	if s.basePath == "" || s.basePath == "/" {
		return s.echo.Group("")
	}
	return s.echo.Group(s.basePath)
}

// AddReadinessCheck registers a dependency probe for the readiness endpoint.
func (s *Server) AddReadinessCheck(check ReadinessCheck) {
	s.readiness = append(s.readiness, check)
}

// Start starts the HTTP server and begins accepting requests.
// It blocks until the server is shut down or encounters an error.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	s.logger.Info().
		Str("service", s.cfg.App.Name).
		Str("version", s.cfg.App.Version).
		Str("env", s.cfg.App.Env).
		Str("address", addr).
		Msg("Starting server...")

	server := &http.Server{
		Addr:         addr,
		ReadTimeout:  s.cfg.Server.Timeout.Read,
		WriteTimeout: s.cfg.Server.Timeout.Write,
	}

	return s.echo.StartServer(server)
}

// Shutdown gracefully shuts down the HTTP server with the given context.
// It waits for existing connections to finish within the context timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (s *Server) readyCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	for _, check := range s.readiness {
		if err := check(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status": "unavailable",
				"error":  err.Error(),
				"time":   time.Now().Unix(),
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func customErrorHandler(err error, c echo.Context, cfg *config.Config) {
	if c.Response().Committed {
		return
	}

	// If this is a structured API error, reuse its fields
	var apiErr IAPIError
	if goerrors.As(err, &apiErr) {
		_ = formatErrorResponse(c, apiErr, cfg)
		return
	}

	// Map echo.HTTPError and untyped errors to the standardized envelope
	status := http.StatusInternalServerError
	msg := "Internal server error"
	var he *echo.HTTPError
	if goerrors.As(err, &he) {
		status = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			// keep default
		}
	}

	// In non-debug (production) hide internal details for 500s
	if !cfg.App.Debug && status == http.StatusInternalServerError {
		msg = "An error occurred while processing your request"
	}

	code := statusToErrorCode(status)
	base := NewBaseAPIError(code, msg, status)
	// Include raw error details in development
	if isDevelopmentEnv(cfg.App.Env) {
		_ = base.WithDetails("error", err.Error())
	}

	_ = formatErrorResponse(c, base, cfg)
}

func statusToErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusUnprocessableEntity:
		return "UNPROCESSABLE_ENTITY"
	case http.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}
