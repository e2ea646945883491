// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides correlation IDs, the structured access log, and panic
// recovery:
//
//   - RequestID() reuses or mints the X-Request-ID for every request.
//   - Logger() attaches a request-scoped zerolog.Logger (retrieved with
//     LoggerFrom) and writes one access line per request, levelled by outcome.
//   - Recovery() turns a panic into the generic JSON 500 body
//     {"error":"Something went wrong!"} and logs the stack.
//
// Recommended order: RequestID, RedactingLogger or Logger, Recovery.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"

	// maxQueryLogLength caps the bytes of the raw query string that are logged.
	maxQueryLogLength = 2048

	// panicMessage is the body returned for any unhandled failure.
	panicMessage = "Something went wrong!"
)

// RequestID attaches (or propagates) a correlation identifier per request and
// echoes it in the X-Request-ID response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// RequestIDFrom returns the correlation id stored by RequestID, or "".
func RequestIDFrom(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		return asString(v)
	}
	return c.Writer.Header().Get(requestIDHeader)
}

// Logger writes a structured access log for each request.
//
// The request-scoped logger carries request_id, method, path and remote_ip.
// The authenticated user is only known once the route's auth middleware has
// run, so user_id is added to the final access line after c.Next().
// Levels: error for 5xx or collected gin errors, warn for 4xx, info otherwise.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		l := log.With().
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Logger()
		c.Set(loggerKey, &l)

		c.Next()

		status := c.Writer.Status()
		ev := l.With().
			Str("user_id", UserID(c)).
			Str("user_agent", c.Request.UserAgent()).
			Str("query", truncate(c.Request.URL.RawQuery, maxQueryLogLength)).
			Int64("bytes_in", c.Request.ContentLength).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		switch {
		case len(c.Errors) > 0:
			ev.Error().Str("errors", c.Errors.String()).Msg("request")
		case status >= http.StatusInternalServerError:
			ev.Error().Msg("request")
		case status >= http.StatusBadRequest:
			ev.Warn().Msg("request")
		default:
			ev.Info().Msg("request")
		}
	}
}

// Recovery intercepts panics, logs the stack trace with the request id, and
// answers 500 {"error":"Something went wrong!","request_id":...} unless a
// response was already started.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid := RequestIDFrom(c)
			log.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("request_id", rid).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header(requestIDHeader, rid)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":      panicMessage,
				"code":       "internal_error",
				"request_id": rid,
			})
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or a plain global logger when
// Logger() is not installed. The result is never nil.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Str("request_id", RequestIDFrom(c)).Logger()
	return &l
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// truncate cuts s to max bytes and appends an ellipsis. max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
