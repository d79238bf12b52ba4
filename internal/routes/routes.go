package routes

import (
	"time"

	"github.com/fitclubhq/fitclub-backend/internal/apps"
	"github.com/fitclubhq/fitclub-backend/internal/config"
	"github.com/fitclubhq/fitclub-backend/internal/handlers"
	"github.com/fitclubhq/fitclub-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	functionHandler *handlers.FunctionHandler,
	profileHandler *handlers.ProfileHandler,
	planHandler *handlers.PlanHandler,
	plugins []apps.Plugin,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (no tenant required)
	api.Get("/health", healthHandler.Check)

	// Auth — public (tenant middleware already applied globally)
	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected routes (JWT required) - applied per route so public routes
	// stay unaffected
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)
	api.Get("/profile", middleware.JWTProtected(cfg), profileHandler.Get)
	api.Get("/plans", planHandler.ListPlans)
	api.Get("/subscription", middleware.JWTProtected(cfg), planHandler.GetSubscription)

	// Privileged function entry points — function key, no JWT, no tenant
	// header (they serve the statically configured tenant)
	functions := api.Group("/functions", middleware.FunctionKeyRequired(cfg))
	functions.Post("/create-profile", functionHandler.CreateProfile)
	functions.Post("/join-default-team", functionHandler.JoinDefaultTeam)

	// Plugin routes on a JWT-protected group
	protected := api.Group("/p", middleware.JWTProtected(cfg))
	for _, p := range plugins {
		p.RegisterRoutes(protected, db, cfg)
	}
}
