package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/oidcbridge/oidcbridge/internal/auth"
	"github.com/oidcbridge/oidcbridge/internal/config"
	"github.com/oidcbridge/oidcbridge/internal/web/handler"
	authmiddleware "github.com/oidcbridge/oidcbridge/internal/web/middleware/auth"
)

// Path is the path to the logout route.
const Path = "/logout"

// Service is the logout handler service.
type Service struct {
	cfg     *config.Config
	manager *auth.SessionManager
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler behind the auth guard.
func (s *Service) Init(app *fiber.App, cfg *config.Config, manager *auth.SessionManager, guard fiber.Handler) error {
	if app == nil || cfg == nil || manager == nil {
		log.Fatal().Msg(handler.ErrNilACMFatalLogMsg)
		return nil
	}

	s.cfg = cfg
	s.manager = manager

	app.Get(cfg.Webserver.RoutePrefix+Path, guard, s.Logout)

	return nil
}

// Logout clears the current user's session. It is best-effort: a missing
// user or session never fails the request.
func (s *Service) Logout(c *fiber.Ctx) error {
	claims := authmiddleware.Claims(c)

	if err := s.manager.Logout(c.UserContext(), claims.UserID); err != nil {
		log.Error().Err(err).Uint64("user_id", claims.UserID).Msg("logout failed")
	}

	c.Set("Authenticate", "Bearer")

	return c.JSON(fiber.Map{"message": "Logout successful"})
}
