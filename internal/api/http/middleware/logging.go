package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/useraccounts-server/internal/logger"
)

// Logging writes one access log line per request.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, route, status, duration and request id.
func (l *Logging) Handle(c *gin.Context) {
	start := time.Now()

	c.Next()

	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	status := c.Writer.Status()
	args := []any{
		"method", c.Request.Method,
		"route", route,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", c.GetString(requestIDKey),
		"client_ip", c.ClientIP(),
	}

	switch {
	case status >= http.StatusInternalServerError:
		l.logger.Error("HTTP request failed", args...)
	case status >= http.StatusBadRequest:
		l.logger.Warn("HTTP request rejected", args...)
	default:
		l.logger.Info("HTTP request completed", args...)
	}
}
