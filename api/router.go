package api

import (
	"resort/api/middleware"
	"resort/config"

	"github.com/gin-gonic/gin"
)

// ControllerRegister is implemented by every controller mounted under /api/v1
type ControllerRegister interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// MiddlewareRegister adds extra global middleware after the default chain
type MiddlewareRegister func() gin.HandlerFunc

// Route is an extra route mounted on the root engine
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

// Router Route configuration
type Router struct {
	engine       *gin.Engine
	config       *config.Config
	controllers  []ControllerRegister
	customRoutes []Route
}

// NewRouter Create route configuration
func NewRouter(
	cfg *config.Config,
	controllers []ControllerRegister,
	middlewares []MiddlewareRegister,
	customRoutes []Route,
) *Router {
	// Set Gin mode based on environment
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else if cfg.App.Env == "test" {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Add middleware (order is important)
	engine.Use(middleware.RequestIDMiddleware())                      // 1. Generate request ID first
	engine.Use(middleware.RecoveryMiddleware())                       // 2. Recovery middleware
	engine.Use(middleware.LoggingMiddleware())                        // 3. Logging middleware
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))                  // 4. CORS
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit)) // 5. Rate limiting
	for _, m := range middlewares {
		engine.Use(m())
	}

	return &Router{
		engine:       engine,
		config:       cfg,
		controllers:  controllers,
		customRoutes: customRoutes,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	{
		for _, c := range r.controllers {
			c.RegisterRoutes(apiGroup)
		}
	}

	for _, route := range r.customRoutes {
		r.engine.Handle(route.Method, route.Path, route.Handler)
	}

	// Set root path route
	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
