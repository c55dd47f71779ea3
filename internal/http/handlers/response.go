// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints: a structured error envelope, consistent JSON serialization, and
// helpers for common success shapes. Every error response carries a stable
// machine-readable `code` plus a legacy `error` string that pre-existing
// chat clients branch on.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bledchat/server/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// Fields:
//   - RequestID: correlation id echoed from X-Request-ID, for matching server
//     logs with client-side failures.
//   - Code: stable, machine-readable string (see errors.go constants).
//   - Message: human-readable description, safe to show to users.
//   - Error: duplicate of Message under the key the original web client
//     reads. Kept for wire compatibility.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code      string `json:"code" example:"bad_request"`
	Message   string `json:"message" example:"Missing required fields"`
	Error     string `json:"error" example:"Missing required fields"`
}

// fail aborts the request with a structured error and logs server-side
// errors (5xx) through the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Message:   msg,
		Error:     msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail(), for use by router-level fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
