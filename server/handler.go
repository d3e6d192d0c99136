package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/libris/config"
)

// HandlerFunc defines the typed handler signature that focuses on business logic.
// Request binding, validation, and response formatting happen in the wrapper.
type HandlerFunc[T any, R any] func(ctx HandlerContext, request T) (R, IAPIError)

// HandlerContext provides access to the Echo context and configuration when needed.
type HandlerContext struct {
	Echo   echo.Context
	Config *config.Config
}

// Context returns the request-scoped context for database and messaging calls.
func (hc HandlerContext) Context() echo.Context {
	return hc.Echo
}

// Handle wraps a business logic handler into an Echo-compatible handler.
// It binds the request from path/query/body, validates it, invokes the
// handler and formats the standardized response envelope.
func Handle[T any, R any](cfg *config.Config, handlerFunc HandlerFunc[T, R]) echo.HandlerFunc {
	return HandleWithStatus(cfg, http.StatusOK, handlerFunc)
}

// HandleWithStatus is Handle with a custom success status code, e.g.
// http.StatusCreated for resource creation.
func HandleWithStatus[T any, R any](cfg *config.Config, status int, handlerFunc HandlerFunc[T, R]) echo.HandlerFunc {
	return func(c echo.Context) error {
		var request T

		if err := c.Bind(&request); err != nil {
			badReq := NewBadRequestError("Invalid request data")
			_ = badReq.WithDetails("error", err.Error())
			return formatErrorResponse(c, badReq, cfg)
		}

		if err := c.Validate(&request); err != nil {
			vErr := NewBadRequestError("Request validation failed")
			var ve *ValidationError
			if errors.As(err, &ve) {
				_ = vErr.WithDetails("validationErrors", ve.Errors)
			} else {
				_ = vErr.WithDetails("error", err.Error())
			}
			return formatErrorResponse(c, vErr, cfg)
		}

		handlerCtx := HandlerContext{
			Echo:   c,
			Config: cfg,
		}

		response, apiErr := handlerFunc(handlerCtx, request)
		if apiErr != nil {
			return formatErrorResponse(c, apiErr, cfg)
		}

		return formatSuccessResponseWithStatus(c, response, status)
	}
}
