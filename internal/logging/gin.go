package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const requestLoggerKey = "logger"

// RequestLogger assigns a request id, stores a request-scoped logger on the
// gin context and logs one line per request once the handler chain returns.
func RequestLogger(base Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(RequestIDHeader, reqID)

		log := base.With("request_id", reqID)
		c.Set(requestLoggerKey, log)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		args := []any{
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error(c.Request.Context(), "request", args...)
		case status >= 400:
			log.Warn(c.Request.Context(), "request", args...)
		default:
			log.Info(c.Request.Context(), "request", args...)
		}
	}
}

// FromGin returns the request-scoped logger, or fallback when RequestLogger
// did not run.
func FromGin(c *gin.Context, fallback Logger) Logger {
	if v, ok := c.Get(requestLoggerKey); ok {
		if l, ok := v.(Logger); ok {
			return l
		}
	}
	return fallback
}
