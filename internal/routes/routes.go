package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/middleware"
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
	itemHandler *handlers.ItemHandler,
	collectionHandler *handlers.CollectionHandler,
	tagHandler *handlers.TagHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	uploadHandler *handlers.UploadHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

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
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)

	protected := middleware.JWTProtected(cfg)

	items := api.Group("/items", protected)
	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Create)
	// Registered before /:id so the literal segment wins.
	items.Get("/review-session", itemHandler.ReviewSession)
	items.Get("/:id", itemHandler.Get)
	items.Patch("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
	items.Post("/:id/answers", itemHandler.SubmitAnswer)
	items.Get("/:id/answers", itemHandler.Answers)
	items.Post("/:id/stats/recompute", itemHandler.RecomputeStats)
	items.Patch("/:id/status", itemHandler.SetStatus)
	items.Patch("/:id/review", itemHandler.SetReview)
	items.Patch("/:id/rotate", itemHandler.RotateImage)
	items.Put("/:id/tags", itemHandler.ReplaceTags)

	collections := api.Group("/collections", protected)
	collections.Get("/", collectionHandler.List)
	collections.Post("/", collectionHandler.Create)
	collections.Get("/trash", collectionHandler.Trash)
	collections.Patch("/:id", collectionHandler.Update)
	collections.Post("/:id/trash", collectionHandler.MoveToTrash)
	collections.Post("/:id/restore", collectionHandler.Restore)
	collections.Delete("/:id", collectionHandler.HardDelete)

	api.Get("/tags", protected, tagHandler.List)

	analytics := api.Group("/analytics", protected)
	analytics.Get("/stats", analyticsHandler.Stats)
	analytics.Get("/recommendations", analyticsHandler.Recommendations)

	upload := api.Group("/upload", protected)
	upload.Post("/", uploadHandler.Upload)
	upload.Delete("/", uploadHandler.Delete)

	admin := api.Group("/admin", protected, middleware.AdminRequired(db, cfg))
	admin.Post("/uploads/reap", uploadHandler.Reap)
}
