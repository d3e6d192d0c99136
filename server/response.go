package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gaborage/libris/config"
)

// APIResponse represents the standardized API response format.
type APIResponse struct {
	Data  any               `json:"data,omitempty"`
	Error *APIErrorResponse `json:"error,omitempty"`
	Meta  map[string]any    `json:"meta"`
}

// APIErrorResponse represents the error portion of an API response.
type APIErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func isDevelopmentEnv(env string) bool {
	return env == config.EnvDevelopment
}

// formatSuccessResponse formats a successful response with a standard envelope.
func formatSuccessResponse(c echo.Context, data any) error {
	return formatSuccessResponseWithStatus(c, data, http.StatusOK)
}

// formatSuccessResponseWithStatus formats a successful response with a custom status.
func formatSuccessResponseWithStatus(c echo.Context, data any, status int) error {
	if status == 0 {
		status = http.StatusOK
	}
	if status == http.StatusNoContent {
		return c.NoContent(http.StatusNoContent)
	}
	response := APIResponse{
		Data: data,
		Meta: responseMeta(c),
	}
	return c.JSON(status, response)
}

// formatErrorResponse formats an error response with standardized structure.
// Error details are only included in the development environment.
func formatErrorResponse(c echo.Context, apiErr IAPIError, cfg *config.Config) error {
	errorResp := &APIErrorResponse{
		Code:    apiErr.ErrorCode(),
		Message: apiErr.Message(),
	}

	if isDevelopmentEnv(cfg.App.Env) {
		if details := apiErr.Details(); len(details) > 0 {
			errorResp.Details = details
		}
	}

	response := APIResponse{
		Error: errorResp,
		Meta:  responseMeta(c),
	}

	return c.JSON(apiErr.HTTPStatus(), response)
}

func responseMeta(c echo.Context) map[string]any {
	return map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"requestId": getRequestID(c),
	}
}

// getRequestID extracts or generates a request ID for the response envelope.
func getRequestID(c echo.Context) string {
	if requestID := c.Request().Header.Get(echo.HeaderXRequestID); requestID != "" {
		return requestID
	}
	if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
		return requestID
	}
	// Generate a new one so downstream log correlation still works.
	newID := uuid.New().String()
	c.Response().Header().Set(echo.HeaderXRequestID, newID)
	return newID
}
