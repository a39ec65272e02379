package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-dashboard/internal/config"
	"github.com/sangkips/invoice-dashboard/internal/presentation/http/handler"
	"github.com/sangkips/invoice-dashboard/internal/presentation/http/middleware"
	"github.com/sangkips/invoice-dashboard/internal/presentation/web"
	"github.com/sangkips/invoice-dashboard/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	User      *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager  *utils.JWTManager
	RateLimiter *middleware.UserRateLimiter
	Cfg         *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Health)
	web.Register(router)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(deps.RateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

// NewRateLimiter builds the per-account limiter from RATE_LIMIT_* settings.
// Non-positive settings fall back to the defaults.
func NewRateLimiter(cfg config.RateLimitConfig) *middleware.UserRateLimiter {
	limiterCfg := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		limiterCfg.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		limiterCfg.BurstSize = cfg.Requests
	}
	limiterCfg.CleanupInterval = 5 * time.Minute
	limiterCfg.EntryTTL = 10 * time.Minute
	return middleware.NewUserRateLimiter(limiterCfg)
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/profile", h.Auth.GetProfile)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	{
		dashboard.GET("", h.Dashboard.GetDashboard)
		dashboard.GET("/filters", h.Dashboard.GetFilters)
		dashboard.GET("/export", h.Dashboard.Export)
	}

	// Users (Admin)
	users := protected.Group("/users")
	users.Use(middleware.RequireAdmin())
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
	}
}
