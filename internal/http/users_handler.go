package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"devconnect/internal/auth"
	"devconnect/internal/http/middleware"
	"devconnect/internal/users"
	"devconnect/internal/validation"
)

// RegisterParams is the POST /api/users payload.
type RegisterParams struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginParams is the POST /api/auth payload.
type LoginParams struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterAction creates a user account and returns a signed token.
func (a *API) RegisterAction(c *fiber.Ctx) error {
	var params RegisterParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request",
		})
	}
	if fieldErrs := validation.Check(params); fieldErrs != nil {
		return renderFieldErrors(c, fieldErrs)
	}

	user, err := users.Register(a.DB, a.Logger, params.Name, params.Email, params.Password)
	if err != nil {
		return a.renderError(c, err)
	}

	token, err := auth.IssueToken(a.Cfg, user.ID)
	if err != nil {
		return a.renderError(c, err)
	}

	a.Logger.Info("User registered",
		slog.String("email", user.Email), slog.Uint64("userId", uint64(user.ID)))
	return c.JSON(fiber.Map{"token": token})
}

// LoginAction verifies credentials and returns a signed token.
func (a *API) LoginAction(c *fiber.Ctx) error {
	var params LoginParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request",
		})
	}
	if fieldErrs := validation.Check(params); fieldErrs != nil {
		return renderFieldErrors(c, fieldErrs)
	}

	user, err := users.Authenticate(a.DB, a.Logger, params.Email, params.Password)
	if err != nil {
		return a.renderError(c, err)
	}

	token, err := auth.IssueToken(a.Cfg, user.ID)
	if err != nil {
		return a.renderError(c, err)
	}

	a.Logger.Debug("Login successful", slog.String("email", user.Email))
	return c.JSON(fiber.Map{"token": token})
}

// CurrentUserAction returns the caller's account snapshot minus the credential.
func (a *API) CurrentUserAction(c *fiber.Ctx) error {
	user, err := users.FindByID(a.DB, middleware.CallerID(c))
	if err != nil {
		return a.renderError(c, err)
	}
	return c.JSON(user)
}
