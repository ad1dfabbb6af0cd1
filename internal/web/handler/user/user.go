package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/oidcbridge/oidcbridge/internal/auth"
	"github.com/oidcbridge/oidcbridge/internal/config"
	"github.com/oidcbridge/oidcbridge/internal/web/handler"
	authmiddleware "github.com/oidcbridge/oidcbridge/internal/web/middleware/auth"
)

// Path is the path to the current-user route.
const Path = "/users"

// Service is the user handler service.
type Service struct {
	cfg     *config.Config
	manager *auth.SessionManager
}

// Handler is the user handler.
var Handler = Service{}

// Init initializes the user handler behind the auth guard.
func (s *Service) Init(app *fiber.App, cfg *config.Config, manager *auth.SessionManager, guard fiber.Handler) error {
	if app == nil || cfg == nil || manager == nil {
		log.Fatal().Msg(handler.ErrNilACMFatalLogMsg)
		return nil
	}

	s.cfg = cfg
	s.manager = manager

	app.Get(cfg.Webserver.RoutePrefix+Path, guard, s.Get)

	return nil
}

// Get returns the current user's record.
func (s *Service) Get(c *fiber.Ctx) error {
	claims := authmiddleware.Claims(c)

	record, err := s.manager.UserByID(c.UserContext(), claims.UserID)
	if err != nil {
		log.Debug().Err(err).Uint64("user_id", claims.UserID).Msg("user lookup failed")
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"data": record})
}
