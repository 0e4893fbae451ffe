package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/useraccounts-server/internal/api/http/handler"
	"github.com/dtroode/useraccounts-server/internal/api/http/middleware"
	"github.com/dtroode/useraccounts-server/internal/logger"
	"github.com/dtroode/useraccounts-server/internal/model"
)

// Services groups the dependencies the HTTP routes dispatch to.
type Services struct {
	Auth   handler.AuthService
	Users  handler.UserService
	Reset  handler.ResetService
	Health handler.HealthChecker
}

// Router represents the REST router of the account service.
type Router struct {
	services       Services
	contextManager model.ContextManager
	authHeader     string
	logger         *logger.Logger
}

// New creates new HTTP Router instance. Tokens are read from authHeader.
func New(services Services, contextManager model.ContextManager, authHeader string, logger *logger.Logger) *Router {
	return &Router{
		services:       services,
		contextManager: contextManager,
		authHeader:     authHeader,
		logger:         logger,
	}
}

// Register builds the gin engine with all routes and middleware.
func (r *Router) Register() *gin.Engine {
	handler.RegisterValidators()

	engine := gin.New()
	_ = engine.SetTrustedProxies(nil)

	logging := middleware.NewLogging(r.logger)
	engine.Use(middleware.RequestID, logging.Handle, gin.Recovery())

	authenticate := middleware.NewAuthenticate(r.services.Auth, r.contextManager, r.authHeader, r.logger)
	authorize := middleware.NewAuthorize(r.contextManager)
	selfOrAdmin := authorize.RequireSelfOrAdmin("id")

	authHandler := handler.NewAuth(r.services.Auth, r.contextManager, r.logger)
	userHandler := handler.NewUser(r.services.Users, r.contextManager, r.logger)
	resetHandler := handler.NewReset(r.services.Reset, r.logger)

	engine.POST("/register", authHandler.Register)
	engine.POST("/login", authHandler.Login)
	engine.POST("/forgot-password", resetHandler.Request)
	engine.POST("/users/:id/reset-password", resetHandler.Submit)

	if r.services.Health != nil {
		engine.GET("/healthz", handler.NewHealth(r.services.Health).Check)
	}

	authed := engine.Group("/", authenticate.Handle)
	authed.GET("/verify", authHandler.Verify)
	authed.GET("/users", authorize.RequireAdmin, userHandler.List)
	authed.GET("/users/:id", selfOrAdmin, userHandler.Get)
	authed.PUT("/users/:id", selfOrAdmin, userHandler.Update)
	authed.PUT("/update-user/:id", selfOrAdmin, userHandler.Update)
	authed.DELETE("/users/:id", selfOrAdmin, userHandler.Delete)

	return engine
}
