package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	RequestIDHeader = "X-Request-Id"
	RequestIDKey    = "requestID"
)

// RequestID propagates the caller's X-Request-Id or assigns a fresh one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Set(RequestIDKey, id)
		c.Next()
	}
}

// RequestIDFromContext returns the id set by RequestID, or "" outside of it
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// RequestLogger writes one structured line per request
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		event := log.Info()
		if status >= 500 {
			event = log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("request_id", RequestIDFromContext(c)).
			Msg("http_request")
	}
}
