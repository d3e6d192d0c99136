package server

import (
	"fmt"
	"maps"
	"net/http"
)

// IAPIError defines the interface for API errors with structured information.
type IAPIError interface {
	ErrorCode() string
	Message() string
	HTTPStatus() int
	Details() map[string]any
}

// BaseAPIError provides a basic implementation of IAPIError.
type BaseAPIError struct {
	code       string
	message    string
	httpStatus int
	details    map[string]any
}

// NewBaseAPIError creates a new base API error.
func NewBaseAPIError(code, message string, httpStatus int) *BaseAPIError {
	return &BaseAPIError{
		code:       code,
		message:    message,
		httpStatus: httpStatus,
		details:    make(map[string]any),
	}
}

// ErrorCode returns the error code.
func (e *BaseAPIError) ErrorCode() string {
	return e.code
}

// Message returns the error message.
func (e *BaseAPIError) Message() string {
	return e.message
}

// HTTPStatus returns the HTTP status code.
func (e *BaseAPIError) HTTPStatus() int {
	return e.httpStatus
}

// Details returns additional error details.
func (e *BaseAPIError) Details() map[string]any {
	if e.details == nil {
		return nil
	}
	cp := make(map[string]any, len(e.details))
	maps.Copy(cp, e.details)
	return cp
}

// WithDetails adds details to the error.
func (e *BaseAPIError) WithDetails(key string, value any) *BaseAPIError {
	e.details[key] = value
	return e
}

// Error implements the error interface for BaseAPIError.
// It returns a concise representation suitable for logs and debugging.
func (e *BaseAPIError) Error() string {
	if e == nil {
		return ""
	}
	if e.code == "" {
		return e.message
	}
	return e.code + ": " + e.message
}

// NotFoundError represents resource not found errors.
type NotFoundError struct {
	*BaseAPIError
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource string) *NotFoundError {
	message := fmt.Sprintf("%s not found", resource)
	return &NotFoundError{
		BaseAPIError: NewBaseAPIError("NOT_FOUND", message, http.StatusNotFound),
	}
}

// ConflictError represents resource conflict errors.
type ConflictError struct {
	*BaseAPIError
}

// NewConflictError creates a new conflict error.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{
		BaseAPIError: NewBaseAPIError("CONFLICT", message, http.StatusConflict),
	}
}

// BadRequestError represents malformed request errors.
type BadRequestError struct {
	*BaseAPIError
}

// NewBadRequestError creates a new bad request error.
func NewBadRequestError(message string) *BadRequestError {
	return &BadRequestError{
		BaseAPIError: NewBaseAPIError("BAD_REQUEST", message, http.StatusBadRequest),
	}
}

// UnprocessableEntityError represents semantically invalid request errors.
type UnprocessableEntityError struct {
	*BaseAPIError
}

// NewUnprocessableEntityError creates a new unprocessable entity error.
func NewUnprocessableEntityError(message string) *UnprocessableEntityError {
	return &UnprocessableEntityError{
		BaseAPIError: NewBaseAPIError("UNPROCESSABLE_ENTITY", message, http.StatusUnprocessableEntity),
	}
}

// InternalError represents unexpected server-side errors.
type InternalError struct {
	*BaseAPIError
}

// NewInternalError creates a new internal server error.
func NewInternalError(message string) *InternalError {
	if message == "" {
		message = "An error occurred while processing your request"
	}
	return &InternalError{
		BaseAPIError: NewBaseAPIError("INTERNAL_ERROR", message, http.StatusInternalServerError),
	}
}
