package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/useraccounts-server/internal/apierrors"
	"github.com/dtroode/useraccounts-server/internal/logger"
	"github.com/dtroode/useraccounts-server/internal/model"
)

// UserService defines account management operations.
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id uuid.UUID) (model.User, error)
	Update(ctx context.Context, id uuid.UUID, params model.UpdateUserParams, actor model.Claims) (model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// User handles account endpoints.
type User struct {
	userService    UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(userService UserService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		userService:    userService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *User) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, newUserResponse(u))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *User) Get(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *User) Update(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	actor, ok := h.contextManager.GetClaimsFromContext(c.Request.Context())
	if !ok {
		writeError(c, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	var req updateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, model.UpdateUserParams{
		Email:    req.Email,
		Password: req.Password,
		UserType: model.UserType(req.UserType),
		Profile:  req.toModel(),
	}, actor)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *User) Delete(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}
