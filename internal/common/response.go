package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse standard API response envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *ListMeta   `json:"meta,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ListMeta pagination metadata for list responses
type ListMeta struct {
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// ErrorInfo error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse returns a successful JSON response
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// CreatedResponse returns a 201 Created response
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

// ListResponse returns a successful list response with pagination meta
func ListResponse(c *gin.Context, data interface{}, meta *ListMeta) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// ErrorResponse returns an error JSON response
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:    getErrorCode(status),
			Message: message,
		},
	})
}

// TranslateError maps a service error to the response envelope.
// Storage errors are reported with a generic message only.
func TranslateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidFilterSyntax),
		errors.Is(err, ErrUnsupportedOperator),
		errors.Is(err, ErrInvalidInput):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnauthorized):
		ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, ErrForbidden):
		ErrorResponse(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, ErrSchemaNotFound),
		errors.Is(err, ErrContentNotFound),
		errors.Is(err, ErrVersionNotFound),
		errors.Is(err, ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoPublishableData):
		ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrStorageFailure):
		ErrorResponse(c, http.StatusInternalServerError, "internal storage error")
	default:
		ErrorResponse(c, http.StatusInternalServerError, "internal server error")
	}
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int) string {
	switch status {
	case 400:
		return "BAD_REQUEST"
	case 401:
		return "UNAUTHORIZED"
	case 403:
		return "FORBIDDEN"
	case 404:
		return "NOT_FOUND"
	case 409:
		return "CONFLICT"
	case 500:
		return "INTERNAL_SERVER_ERROR"
	default:
		return "ERROR"
	}
}
