package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/useraccounts-server/internal/apierrors"
	"github.com/dtroode/useraccounts-server/internal/logger"
	"github.com/dtroode/useraccounts-server/internal/model"
)

// AuthService defines user registration and login operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.User, error)
	Login(ctx context.Context, email, password string) (string, model.User, error)
	VerifyToken(ctx context.Context, token string) (model.Claims, error)
}

// Auth handles registration, login and token introspection.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register creates a customer account.
func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), model.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Profile:  req.toModel(),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	resp := newUserResponse(user)
	c.JSON(http.StatusCreated, messageResponse{
		Message: fmt.Sprintf("User %s created successfully", user.Email),
		User:    &resp,
	})
}

// Login exchanges credentials for a bearer token.
func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token: token,
		User:  newUserResponse(user),
	})
}

// Verify returns the identity carried by the presented token.
func (h *Auth) Verify(c *gin.Context) {
	claims, ok := h.contextManager.GetClaimsFromContext(c.Request.Context())
	if !ok {
		writeError(c, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}
	c.JSON(http.StatusOK, claims)
}
