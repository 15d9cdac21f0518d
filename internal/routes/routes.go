package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/playtesters/community-backend/internal/config"
	"github.com/playtesters/community-backend/internal/handlers"
	"github.com/playtesters/community-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	postHandler *handlers.PostHandler,
	commentHandler *handlers.CommentHandler,
	tagHandler *handlers.TagHandler,
	reportHandler *handlers.ReportHandler,
	verificationHandler *handlers.VerificationHandler,
	adminHandler *handlers.AdminHandler,
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

	// Auth is public but rate limited harder: 10 req/min per IP
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

	// Protected auth routes (JWT applied per route so public ones stay public)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Public reads
	api.Get("/posts", postHandler.Feed)
	api.Get("/posts/:id", postHandler.Get)
	api.Get("/posts/:id/comments", commentHandler.List)
	api.Get("/tags", tagHandler.List)

	// Authenticated writes (ownership enforced in the services)
	api.Post("/posts", middleware.JWTProtected(cfg), postHandler.Create)
	api.Put("/posts/:id", middleware.JWTProtected(cfg), postHandler.Update)
	api.Delete("/posts/:id", middleware.JWTProtected(cfg), postHandler.Delete)
	api.Post("/posts/:id/like", middleware.JWTProtected(cfg), postHandler.ToggleLike)
	api.Post("/posts/:id/save", middleware.JWTProtected(cfg), postHandler.ToggleSave)
	api.Get("/saved", middleware.JWTProtected(cfg), postHandler.Saved)
	api.Post("/posts/:id/comments", middleware.JWTProtected(cfg), commentHandler.Create)
	api.Patch("/comments/:id", middleware.JWTProtected(cfg), commentHandler.Update)
	api.Delete("/comments/:id", middleware.JWTProtected(cfg), commentHandler.Delete)
	api.Post("/tags", middleware.JWTProtected(cfg), tagHandler.Create)
	api.Post("/reports", middleware.JWTProtected(cfg), reportHandler.Create)
	api.Post("/verify/request", middleware.JWTProtected(cfg), verificationHandler.Submit)
	api.Get("/verify/me", middleware.JWTProtected(cfg), verificationHandler.Mine)

	// Moderation dashboard (JWT + staff gate, re-resolved per request)
	staffGate := middleware.StaffRequired(middleware.GormRoleLookup{DB: db}, cfg)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), staffGate)
	admin.Get("/reports", reportHandler.List)
	admin.Get("/reports/:id", reportHandler.Get)
	admin.Patch("/reports/:id", reportHandler.Transition)
	admin.Get("/posts", adminHandler.ListPosts)
	admin.Get("/posts/:id", adminHandler.GetPost)
	admin.Patch("/posts/:id", adminHandler.ModeratePost)
	admin.Delete("/comments/:id", commentHandler.AdminDelete)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:id", adminHandler.GetUser)
	admin.Patch("/users/:id", adminHandler.UpdateUser)
	admin.Patch("/tags/:id", tagHandler.Update)
	admin.Delete("/tags/:id", tagHandler.Delete)
	admin.Get("/verifications", verificationHandler.List)
	admin.Patch("/verifications/:id", verificationHandler.Review)
}
