// Package internal contains core application functionality
package internal

import (
	"time"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	cartridgemiddleware "github.com/karloscodes/cartridge/middleware"

	"devconnect/internal/config"
	"devconnect/internal/http"
	"devconnect/internal/http/middleware"
)

// publicCORSConfig is the CORS configuration for the API. The service is
// consumed by browser frontends on other origins, so it is permissive.
var publicCORSConfig = cors.Config{
	AllowOrigins: "*",
	AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept, Authorization",
}

// MountAppRoutes mounts all application routes on the fiber app.
func MountAppRoutes(app *fiber.App, api *http.API, cfg *config.Config, logger *slog.Logger) {
	app.Use(cors.New(publicCORSConfig))

	// Helper to conditionally apply rate limiting (only in production)
	// In development/test, rate limiting would interfere with testing
	conditionalRateLimiter := func(limiter fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if cfg.IsProduction() {
				return limiter(c)
			}
			return c.Next()
		}
	}

	// Stricter rate limiter for credential endpoints (10 requests per minute)
	// Prevents brute force login and registration abuse
	authRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(10),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	requireAuth := middleware.RequireAuth(cfg, logger)

	// Health check endpoint
	app.Get("/_health", api.HealthIndexAction)
	app.Head("/_health", api.HealthIndexAction)

	// === USERS & AUTHENTICATION ===
	app.Post("/api/users", authRateLimiter, api.RegisterAction)
	app.Post("/api/auth", authRateLimiter, api.LoginAction)
	app.Get("/api/auth", requireAuth, api.CurrentUserAction)

	// === PROFILES ===
	app.Get("/api/profile", api.ListProfilesAction)
	app.Post("/api/profile", requireAuth, api.UpsertProfileAction)
	app.Get("/api/profile/me", requireAuth, api.MyProfileAction)
	app.Get("/api/profile/user/:id", api.ProfileByUserAction)
	app.Delete("/api/profile", requireAuth, api.DeleteProfileAction)

	app.Put("/api/profile/experience", requireAuth, api.AddExperienceAction)
	app.Delete("/api/profile/experience/:id", requireAuth, api.RemoveExperienceAction)
	app.Put("/api/profile/education", requireAuth, api.AddEducationAction)
	app.Delete("/api/profile/education/:id", requireAuth, api.RemoveEducationAction)

	app.Get("/api/profile/github/:username", requireAuth, api.GithubReposAction)

	// === POSTS ===
	app.Post("/api/posts", requireAuth, api.CreatePostAction)
	app.Get("/api/posts", requireAuth, api.ListPostsAction)
	app.Get("/api/posts/:id", requireAuth, api.PostByIDAction)
	app.Delete("/api/posts/:id", requireAuth, api.DeletePostAction)
	app.Put("/api/posts/like/:id", requireAuth, api.LikePostAction)
	app.Put("/api/posts/unlike/:id", requireAuth, api.UnlikePostAction)
	app.Post("/api/posts/comment/:id", requireAuth, api.AddCommentAction)
	app.Delete("/api/posts/comment/:id/:commentId", requireAuth, api.DeleteCommentAction)
}
