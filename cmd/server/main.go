package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/fitclubhq/fitclub-backend/internal/apps"
	"github.com/fitclubhq/fitclub-backend/internal/apps/classes"
	"github.com/fitclubhq/fitclub-backend/internal/bootstrap"
	"github.com/fitclubhq/fitclub-backend/internal/config"
	"github.com/fitclubhq/fitclub-backend/internal/credstore"
	"github.com/fitclubhq/fitclub-backend/internal/database"
	"github.com/fitclubhq/fitclub-backend/internal/handlers"
	"github.com/fitclubhq/fitclub-backend/internal/logging"
	"github.com/fitclubhq/fitclub-backend/internal/middleware"
	"github.com/fitclubhq/fitclub-backend/internal/routes"
	"github.com/fitclubhq/fitclub-backend/internal/services"
	"github.com/fitclubhq/fitclub-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	figure.NewFigure("FitClub", "", true).Print()

	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if cfg.FunctionKey == "" {
		slog.Warn("FUNCTION_KEY not set, privileged function endpoints are disabled")
	}

	// Gym registry
	registry, err := tenant.LoadFromFile(cfg.GymsConfigPath)
	if err != nil {
		slog.Error("failed to load gym registry", "path", cfg.GymsConfigPath, "error", err)
		os.Exit(1)
	}
	slog.Info("gym registry loaded", "gyms", len(registry.All()))

	if !registry.Exists(cfg.DefaultTenantID) {
		slog.Error("DEFAULT_TENANT_ID does not match any registered gym", "tenant_id", cfg.DefaultTenantID)
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cleanupDone)

	// Services
	authService := services.NewAuthService(db, cfg)
	provisionService := services.NewProvisionService(
		services.NewGormProfileStore(db),
		services.NewGormMembershipStore(db),
		registry,
	)
	subscriptionService := services.NewSubscriptionService(
		services.NewGormPlanStore(db),
		services.NewGormSubscriptionStore(db),
	)

	// Bootstrap pipeline: Identity -> Tenant -> Profile -> Subscription
	coordinator := bootstrap.NewCoordinator(
		services.NewBootstrapIdentityProvider(authService, cfg.DefaultTenantID),
		tenant.NewResolver(registry, cfg.DefaultTenantID),
		services.NewBootstrapProvisioner(provisionService),
		services.NewBootstrapSubscriptionInitializer(subscriptionService, registry),
		credstore.NewGormStores(db),
		cfg.BootstrapTimeout,
	)

	// Feature plugins
	plugins := []apps.Plugin{
		classes.New(),
	}
	for _, p := range plugins {
		if models := p.Models(); len(models) > 0 {
			if err := database.MigrateModels(db, models); err != nil {
				slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("plugin migrated", "plugin", p.ID(), "models", len(models))
		}
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(coordinator, authService)
	healthHandler := handlers.NewHealthHandler(db, registry)
	functionHandler := handlers.NewFunctionHandler(provisionService, cfg.DefaultTenantID)
	profileHandler := handlers.NewProfileHandler(services.NewGormProfileStore(db))
	planHandler := handlers.NewPlanHandler(subscriptionService, services.NewGormProfileStore(db))

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})
	app.Use(middleware.TenantMiddleware(registry))

	// Routes
	routes.Setup(app, cfg, db, authHandler, healthHandler, functionHandler, profileHandler, planHandler, plugins)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
