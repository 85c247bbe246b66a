package routes

import (
	"time"

	"github.com/Leeseryong88/logbook/internal/config"
	"github.com/Leeseryong88/logbook/internal/handlers"
	"github.com/Leeseryong88/logbook/internal/middleware"
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
	profileHandler *handlers.ProfileHandler,
	profileWatchHandler *handlers.ProfileWatchHandler,
	nameHandler *handlers.NameHandler,
	diveLogHandler *handlers.DiveLogHandler,
	badgeHandler *handlers.BadgeHandler,
	instructorHandler *handlers.InstructorHandler,
	aiHandler *handlers.AIHandler,
	settingsHandler *handlers.SettingsHandler,
	storageHandler *handlers.StorageHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health
	api.Get("/health", healthHandler.Check)

	// Client settings (public)
	api.Get("/config", settingsHandler.GetConfig)

	// Display-name availability (public, used before signup)
	api.Get("/names/check", nameHandler.Check)

	// Auth — public
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
	auth.Post("/google", authHandler.GoogleSignIn)

	// Protected routes (JWT required) - apply middleware to individual routes
	// This prevents JWT middleware from affecting public routes
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Profile
	api.Get("/profile", middleware.JWTProtected(cfg), profileHandler.Get)
	api.Put("/profile", middleware.JWTProtected(cfg), profileHandler.Update)

	// Profile watch stream (websocket; token travels as a query param)
	api.Get("/profile/watch", profileWatchHandler.Upgrade, profileWatchHandler.Stream())

	// Dive logs
	logs := api.Group("/logs", middleware.JWTProtected(cfg))
	logs.Get("/", diveLogHandler.List)
	logs.Get("/stats", diveLogHandler.Stats)
	logs.Get("/photo-url", diveLogHandler.PhotoURL)
	logs.Get("/:id", diveLogHandler.Get)
	logs.Post("/", diveLogHandler.Upsert)
	logs.Delete("/:id", diveLogHandler.Delete)

	// Badges
	badges := api.Group("/badges", middleware.JWTProtected(cfg))
	badges.Get("/", badgeHandler.Achievements)
	badges.Post("/custom", badgeHandler.CreateCustom)
	badges.Delete("/custom/:id", badgeHandler.DeleteCustom)

	// Instructor applications
	api.Post("/instructor/apply", middleware.JWTProtected(cfg), instructorHandler.Submit)
	api.Get("/instructor/application", middleware.JWTProtected(cfg), instructorHandler.Get)

	// AI assists — costlier upstream calls get a tighter limit
	ai := api.Group("/ai", middleware.JWTProtected(cfg))
	ai.Use(limiter.New(limiter.Config{
		Max:               15,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	ai.Post("/enrich-notes", aiHandler.EnrichNotes)
	ai.Post("/identify-species", aiHandler.IdentifySpecies)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/instructor/applications", instructorHandler.ListPending)
	admin.Put("/instructor/applications/:id", instructorHandler.Review)
	admin.Put("/config/:key", settingsHandler.SetConfigKey)
	admin.Delete("/config/:key", settingsHandler.DeleteConfigKey)
	admin.Get("/storage/orphans", storageHandler.ListOrphans)
}
