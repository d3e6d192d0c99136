package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/libris/config"
)

type createRequest struct {
	Name string `json:"name" validate:"required"`
}

type createResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "libris-test"
	cfg.App.Env = config.EnvDevelopment
	return cfg
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func performJSON(e *echo.Echo, method, target, body string, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestHandleSuccess(t *testing.T) {
	e := newTestEcho()
	cfg := testConfig()

	handler := Handle(cfg, func(_ HandlerContext, req createRequest) (createResponse, IAPIError) {
		return createResponse{ID: 1, Name: req.Name}, nil
	})

	rec := performJSON(e, http.MethodPost, "/students", `{"name":"Ada"}`, handler)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada", data["name"])
	assert.NotEmpty(t, resp.Meta["timestamp"])
	assert.NotEmpty(t, resp.Meta["requestId"])
}

func TestHandleWithStatusCreated(t *testing.T) {
	e := newTestEcho()
	cfg := testConfig()

	handler := HandleWithStatus(cfg, http.StatusCreated, func(_ HandlerContext, req createRequest) (createResponse, IAPIError) {
		return createResponse{ID: 7, Name: req.Name}, nil
	})

	rec := performJSON(e, http.MethodPost, "/students", `{"name":"Ada"}`, handler)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandleWithStatusNoContent(t *testing.T) {
	e := newTestEcho()
	cfg := testConfig()

	handler := HandleWithStatus(cfg, http.StatusNoContent, func(_ HandlerContext, _ createRequest) (any, IAPIError) {
		return nil, nil
	})

	rec := performJSON(e, http.MethodDelete, "/students/1", `{"name":"Ada"}`, handler)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandleBindError(t *testing.T) {
	e := newTestEcho()
	cfg := testConfig()

	handler := Handle(cfg, func(_ HandlerContext, _ createRequest) (createResponse, IAPIError) {
		t.Fatal("handler should not be invoked on bind failure")
		return createResponse{}, nil
	})

	rec := performJSON(e, http.MethodPost, "/students", `{"name":`, handler)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
	assert.Equal(t, "Invalid request data", resp.Error.Message)
}

func TestHandleValidationError(t *testing.T) {
	e := newTestEcho()
	cfg := testConfig()

	handler := Handle(cfg, func(_ HandlerContext, _ createRequest) (createResponse, IAPIError) {
		t.Fatal("handler should not be invoked on validation failure")
		return createResponse{}, nil
	})

	rec := performJSON(e, http.MethodPost, "/students", `{}`, handler)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Request validation failed", resp.Error.Message)
	// Development config exposes the per-field errors
	assert.Contains(t, resp.Error.Details, "validationErrors")
}

func TestHandleAPIError(t *testing.T) {
	e := newTestEcho()
	cfg := testConfig()

	handler := Handle(cfg, func(_ HandlerContext, _ createRequest) (createResponse, IAPIError) {
		return createResponse{}, NewNotFoundError("Student")
	})

	rec := performJSON(e, http.MethodPost, "/students", `{"name":"Ada"}`, handler)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "Student not found", resp.Error.Message)
}

func TestErrorDetailsHiddenOutsideDevelopment(t *testing.T) {
	e := newTestEcho()
	cfg := testConfig()
	cfg.App.Env = config.EnvProduction

	handler := Handle(cfg, func(_ HandlerContext, _ createRequest) (createResponse, IAPIError) {
		apiErr := NewConflictError("Book already borrowed")
		_ = apiErr.WithDetails("bookId", 42)
		return createResponse{}, apiErr
	})

	rec := performJSON(e, http.MethodPost, "/students", `{"name":"Ada"}`, handler)
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Empty(t, resp.Error.Details)
}
