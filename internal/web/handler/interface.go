package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oidcbridge/oidcbridge/internal/auth"
	"github.com/oidcbridge/oidcbridge/internal/config"
)

// Service is the interface for a web handler service.
// The guard is the request-authentication middleware; handlers serving
// public routes ignore it.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, manager *auth.SessionManager, guard fiber.Handler) error
}
