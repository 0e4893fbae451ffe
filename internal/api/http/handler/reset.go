package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/useraccounts-server/internal/logger"
)

// ResetService defines the forgot-password flow.
type ResetService interface {
	RequestReset(ctx context.Context, email string) error
	SubmitReset(ctx context.Context, userID uuid.UUID, token, password string) error
}

// Reset handles the forgot-password endpoints.
type Reset struct {
	resetService ResetService
	logger       *logger.Logger
}

// NewReset creates a new Reset handler.
func NewReset(resetService ResetService, logger *logger.Logger) *Reset {
	return &Reset{
		resetService: resetService,
		logger:       logger,
	}
}

func (h *Reset) Request(c *gin.Context) {
	var req forgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.resetService.RequestReset(c.Request.Context(), req.Email); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Password reset email sent"})
}

func (h *Reset) Submit(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req resetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.resetService.SubmitReset(c.Request.Context(), id, req.Token, req.Password); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Password updated successfully"})
}
