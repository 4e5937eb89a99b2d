// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides request ids, structured access logging, and panic
// recovery:
//
//   - RequestID() reuses or generates X-Request-ID and stores it in the context.
//   - Logger() emits one access log line per request and attaches a
//     request-scoped zerolog.Logger (see LoggerFrom).
//   - Recovery() turns panics into the INTERNAL error envelope and logs the
//     stack.
//
// Recommended order: RequestID, Logger (or RedactingLogger), Recovery.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-clientes-api/internal/apperr"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
	// maxQueryLogLength caps the bytes of raw query string logged.
	maxQueryLogLength = 2048
)

// RequestID attaches (or propagates) a correlation id per request. An
// incoming X-Request-ID is reused; otherwise a UUIDv4 is generated. The id
// is echoed in the response header.
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

// RequestIDFrom returns the id set by RequestID, or "".
func RequestIDFrom(c *gin.Context) string {
	v, _ := c.Get(requestIDKey)
	return asString(v)
}

func routePath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

// attachLogger stores a request-scoped logger carrying the correlation id,
// method and route, and returns it.
func attachLogger(c *gin.Context) *zerolog.Logger {
	l := log.With().
		Str("request_id", RequestIDFrom(c)).
		Str("method", c.Request.Method).
		Str("path", routePath(c)).
		Logger()
	c.Set(loggerKey, &l)
	return &l
}

// Logger writes a structured access log for each request. Level follows the
// outcome: error for 5xx or recorded gin errors, warn for 4xx, info
// otherwise.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		l := attachLogger(c)

		c.Next()

		ev := l.With().
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("query", truncate(c.Request.URL.RawQuery, maxQueryLogLength)).
			Int64("bytes_in", c.Request.ContentLength).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		status := c.Writer.Status()
		switch {
		case len(c.Errors) > 0:
			ev.Error().Str("errors", c.Errors.String()).Msg("request")
		case status >= 500:
			ev.Error().Msg("request")
		case status >= 400:
			ev.Warn().Msg("request")
		default:
			ev.Info().Msg("request")
		}
	}
}

// Recovery intercepts panics, logs the value and stack, and answers with the
// INTERNAL envelope when nothing has been written yet.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("request_id", RequestIDFrom(c)).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			AbortWithError(c, http.StatusInternalServerError, TypeInternal, apperr.MsgInternal)
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or the global logger when
// none was attached. Never nil.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// truncate cuts s to max bytes plus an ellipsis. max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
