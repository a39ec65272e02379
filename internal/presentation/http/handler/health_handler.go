package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-dashboard/internal/application/service"
	"github.com/sangkips/invoice-dashboard/internal/presentation/http/middleware"
)

// HealthHandler reports liveness, the size of the cached dataset and
// rate limiter usage
type HealthHandler struct {
	appName     string
	dashboard   *service.DashboardService
	rateLimiter *middleware.UserRateLimiter
	loadedAt    time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(appName string, dashboard *service.DashboardService, rateLimiter *middleware.UserRateLimiter, loadedAt time.Time) *HealthHandler {
	return &HealthHandler{
		appName:     appName,
		dashboard:   dashboard,
		rateLimiter: rateLimiter,
		loadedAt:    loadedAt,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":     "ok",
		"service":    h.appName,
		"records":    h.dashboard.RecordCount(),
		"loaded_at":  h.loadedAt.UTC().Format(time.RFC3339),
		"rate_limit": h.rateLimiter.Stats(),
	})
}
