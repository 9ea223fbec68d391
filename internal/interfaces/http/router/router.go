package router

import (
	"github.com/agencia/backend/internal/infrastructure/auth"
	"github.com/agencia/backend/internal/interfaces/http/handler"
	"github.com/agencia/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers a handler's routes on an authenticated group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router wires the HTTP surface: public auth routes plus the token-guarded
// API group.
type Router struct {
	engine      *gin.Engine
	jwtService  *auth.JWTService
	authHandler *handler.AuthHandler
	registrars  []RouteRegistrar
}

// New creates a Router over an existing gin engine
func New(engine *gin.Engine, jwtService *auth.JWTService, authHandler *handler.AuthHandler, registrars ...RouteRegistrar) *Router {
	return &Router{
		engine:      engine,
		jwtService:  jwtService,
		authHandler: authHandler,
		registrars:  registrars,
	}
}

// Setup registers all routes
func (r *Router) Setup() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api/v1")

	// Login is the only route reachable without a token.
	api.POST("/auth/login", r.authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(r.jwtService))

	r.authHandler.RegisterRoutes(protected)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(protected)
	}
}
