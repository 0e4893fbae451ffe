package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/useraccounts-server/internal/apierrors"
	"github.com/dtroode/useraccounts-server/internal/model"
)

// Authorize enforces role checks on routes behind Authenticate.
type Authorize struct {
	contextManager model.ContextManager
}

func NewAuthorize(contextManager model.ContextManager) *Authorize {
	return &Authorize{contextManager: contextManager}
}

// RequireAdmin lets only admins through.
func (m *Authorize) RequireAdmin(c *gin.Context) {
	claims, ok := m.contextManager.GetClaimsFromContext(c.Request.Context())
	if !ok {
		abortWithError(c, apierrors.NewErrMissingAuthorizationToken())
		return
	}
	if !claims.IsAdmin() {
		abortWithError(c, apierrors.NewErrForbidden())
		return
	}
	c.Next()
}

// RequireSelfOrAdmin lets through admins and the user whose id is in the
// path parameter param.
func (m *Authorize) RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.contextManager.GetClaimsFromContext(c.Request.Context())
		if !ok {
			abortWithError(c, apierrors.NewErrMissingAuthorizationToken())
			return
		}
		if claims.IsAdmin() {
			c.Next()
			return
		}

		raw := c.Param(param)
		id, err := uuid.Parse(raw)
		if err != nil {
			abortWithError(c, apierrors.NewErrInvalidUserID(raw))
			return
		}
		if id != claims.UserID {
			abortWithError(c, apierrors.NewErrForbidden())
			return
		}
		c.Next()
	}
}
