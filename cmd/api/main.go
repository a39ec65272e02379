package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/invoice-dashboard/internal/application/dataset"
	"github.com/sangkips/invoice-dashboard/internal/application/service"
	"github.com/sangkips/invoice-dashboard/internal/config"
	"github.com/sangkips/invoice-dashboard/internal/infrastructure/database"
	"github.com/sangkips/invoice-dashboard/internal/infrastructure/repository"
	"github.com/sangkips/invoice-dashboard/internal/logger"
	"github.com/sangkips/invoice-dashboard/internal/presentation/http/handler"
	"github.com/sangkips/invoice-dashboard/internal/presentation/http/routes"
	"github.com/sangkips/invoice-dashboard/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}
	appLog := logger.Component("api")

	if err := cfg.Validate(); err != nil {
		appLog.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		appLog.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, cfg.Invoices); err != nil {
		appLog.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Seed default data
	if err := database.SeedDefaultData(ctx, db, cfg.Admin); err != nil {
		appLog.Warn().Err(err).Msg("Failed to seed default data")
	}

	// Read every invoice once; the dashboard serves from memory afterwards
	invoiceRepo := repository.NewInvoiceRepository(db, cfg.Invoices.Table)
	ds, err := dataset.Load(ctx, invoiceRepo)
	if err != nil {
		appLog.Fatal().Err(err).Str("table", cfg.Invoices.Table).Msg("Failed to load invoices")
	}
	appLog.Info().
		Int("records", ds.Len()).
		Str("table", cfg.Invoices.Table).
		Msg("Invoice dataset loaded")

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	dashboardService := service.NewDashboardService(ds)
	exportService := service.NewExportService(dashboardService)
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo)

	rateLimiter := routes.NewRateLimiter(cfg.RateLimit)

	// Initialize handlers
	handlers := &routes.Handlers{
		Health:    handler.NewHealthHandler(cfg.App.Name, dashboardService, rateLimiter, ds.LoadedAt()),
		Auth:      handler.NewAuthHandler(authService),
		Dashboard: handler.NewDashboardHandler(dashboardService, exportService),
		User:      handler.NewUserHandler(userService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:  jwtManager,
		RateLimiter: rateLimiter,
		Cfg:         cfg,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	appLog.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Env).
		Str("port", port).
		Msg("Starting server")

	if err := router.Run(":" + port); err != nil {
		appLog.Fatal().Err(err).Msg("Failed to start server")
	}
}
