package middleware

import (
	"strings"

	"log/slog"

	"github.com/gofiber/fiber/v2"

	"devconnect/internal/auth"
	"devconnect/internal/config"
)

// userIDKey is the locals key under which the verified caller identity travels.
const userIDKey = "userID"

// RequireAuth validates the bearer credential on the request and stores the
// caller's user ID in locals. Expects: Authorization: Bearer <token>
func RequireAuth(cfg *config.Config, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing Authorization header",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid Authorization header format. Expected: Bearer <token>",
			})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := auth.VerifyToken(cfg, tokenString)
		if err != nil {
			logger.Debug("Token verification failed", slog.Any("error", err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// CallerID returns the verified user ID stored by RequireAuth, or 0 when the
// request did not pass through it.
func CallerID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(userIDKey).(uint); ok {
		return id
	}
	return 0
}
