package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/useraccounts-server/internal/apierrors"
	"github.com/dtroode/useraccounts-server/internal/logger"
	"github.com/dtroode/useraccounts-server/internal/model"
)

const bearerPrefix = "Bearer "

// TokenVerifier decodes bearer tokens.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (model.Claims, error)
}

// Authenticate validates bearer tokens and injects the decoded claims into
// the request context. Rejected requests never reach the handler.
type Authenticate struct {
	verifier       TokenVerifier
	contextManager model.ContextManager
	header         string
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware reading the token from header.
func NewAuthenticate(verifier TokenVerifier, contextManager model.ContextManager, header string, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		verifier:       verifier,
		contextManager: contextManager,
		header:         header,
		logger:         logger,
	}
}

// tokenFromRequest prefers the configured header and falls back to
// "Authorization: Bearer <token>".
func (m *Authenticate) tokenFromRequest(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader(m.header)); token != "" {
		return strings.TrimPrefix(token, bearerPrefix)
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
		return strings.TrimSpace(auth[len(bearerPrefix):])
	}
	return ""
}

// Handle is the gin handler function of the middleware.
func (m *Authenticate) Handle(c *gin.Context) {
	token := m.tokenFromRequest(c)
	if token == "" {
		m.logger.Debug("Authenticate middleware: missing token",
			"path", c.Request.URL.Path)
		abortWithError(c, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	claims, err := m.verifier.VerifyToken(c.Request.Context(), token)
	if err != nil {
		m.logger.Info("Authenticate middleware: token rejected",
			"path", c.Request.URL.Path,
			"error", err.Error())
		abortWithError(c, apierrors.NewErrInvalidAuthorizationToken())
		return
	}

	ctx := m.contextManager.SetClaimsToContext(c.Request.Context(), claims)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
