package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/useraccounts-server/internal/health"
)

// HealthChecker reports dependency health.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

type Health struct {
	checker HealthChecker
}

func NewHealth(checker HealthChecker) *Health {
	return &Health{checker: checker}
}

// Check answers 200 when every dependency is reachable and 503 otherwise.
func (h *Health) Check(c *gin.Context) {
	report := h.checker.Check(c.Request.Context())
	status := http.StatusOK
	if report.Status != health.StatusHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
