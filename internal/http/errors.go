package http

import (
	"errors"

	"log/slog"

	"github.com/gofiber/fiber/v2"

	"devconnect/internal/collections"
	"devconnect/internal/github"
	"devconnect/internal/posts"
	"devconnect/internal/profiles"
	"devconnect/internal/users"
	"devconnect/internal/validation"
)

// renderError maps domain errors onto HTTP responses. Client-fault kinds get a
// descriptive message; anything unexpected is logged in full and surfaced as a
// generic failure.
func (a *API) renderError(c *fiber.Ctx, err error) error {
	var profileNotFound *profiles.ProfileNotFoundError
	var postNotFound *posts.PostNotFoundError

	switch {
	case errors.Is(err, users.ErrUserExists):
		return renderFieldErrors(c, []validation.FieldError{
			{Field: "email", Message: "user already exists"},
		})
	case errors.Is(err, users.ErrInvalidCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	case errors.Is(err, users.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	case errors.As(err, &profileNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	case errors.As(err, &postNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	case errors.Is(err, posts.ErrAlreadyLiked):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Post already liked",
		})
	case errors.Is(err, posts.ErrNotYetLiked):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Post has not yet been liked",
		})
	case errors.Is(err, posts.ErrCommentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Comment not found",
		})
	case errors.Is(err, posts.ErrNotPostOwner), errors.Is(err, posts.ErrNotCommentOwner):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not authorized",
		})
	case errors.Is(err, collections.ErrEntryNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Entry not found",
		})
	case errors.Is(err, github.ErrLookupFailed):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No GitHub profile found",
		})
	default:
		a.Logger.Error("Unexpected error handling request",
			slog.String("path", c.Path()), slog.Any("error", err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error",
		})
	}
}

// renderFieldErrors emits the structured field-level error list for 400s.
func renderFieldErrors(c *fiber.Ctx, fieldErrs []validation.FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"errors": fieldErrs,
	})
}
