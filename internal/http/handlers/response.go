// Package handlers provides the HTTP handlers of the doubt-solving API.
//
// This file defines the response helpers shared by every endpoint. Errors use
// one envelope:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "error": "Doubt not found",
//	  "code": "not_found",
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000"
//	}
//
// "error" is the human-readable message browser clients display. "details"
// appears only on 5xx responses, and only when the server runs with
// EXPOSE_ERROR_DETAILS=true.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-doubts-backend/internal/http/middleware"
)

// ErrorResponse is the error envelope returned by all endpoints.
type ErrorResponse struct {
	// Human-readable message, safe to show to users
	Error string `json:"error" example:"Doubt not found"`
	// Stable, machine-readable code (see errors.go)
	Code string `json:"code" example:"not_found"`
	// Raw internal error text; 5xx only and only when enabled
	Details string `json:"details,omitempty" example:"database is locked"`
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message" example:"Password reset successfully"`
}

// fail aborts with the error envelope. 5xx responses are logged through the
// request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     msg,
		Code:      code,
		RequestID: middleware.RequestIDFrom(c),
	})
}

// Fail is the exported variant of fail for the router's fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// internalError answers 500 with msg, logging err. err's text is echoed in
// "details" only when exposeDetails is set.
func internalError(c *gin.Context, exposeDetails bool, code, msg string, err error) {
	middleware.LoggerFrom(c).Error().
		Err(err).
		Str("code", code).
		Msg(msg)

	resp := ErrorResponse{
		Error:     msg,
		Code:      code,
		RequestID: middleware.RequestIDFrom(c),
	}
	if exposeDetails && err != nil {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
}

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
