package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/oidcbridge/oidcbridge/internal/auth"
	"github.com/oidcbridge/oidcbridge/internal/db/store"
	"github.com/oidcbridge/oidcbridge/internal/token"
)

// Error maps a service error to its HTTP response. Failure detail is kept
// generic so clients cannot distinguish decode errors from expired sessions.
func Error(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrProviderAuth):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "OAuth Error"})
	case errors.Is(err, token.ErrInvalidToken), errors.Is(err, auth.ErrAuthenticationFailed):
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Authentication failed!"})
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Object does not exist!"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Internal server error"})
	}
}
