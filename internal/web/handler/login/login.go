package login

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/oidcbridge/oidcbridge/internal/auth"
	"github.com/oidcbridge/oidcbridge/internal/config"
	"github.com/oidcbridge/oidcbridge/internal/uniuri"
	"github.com/oidcbridge/oidcbridge/internal/web/handler"
)

const (
	// Path is the path initiating the OIDC login flow.
	Path = "/login"

	// CallbackPath is the path of the OIDC callback.
	CallbackPath = "/auth"

	// stateTTL is how long a pending login state stays valid.
	stateTTL = 5 * time.Minute

	// stateLen is the length of the random state token.
	stateLen = 32
)

// pendingLogin tracks one outstanding authorization redirect.
type pendingLogin struct {
	redirectURI string
	expiresAt   time.Time
}

// Service is the login handler service.
type Service struct {
	cfg     *config.Config
	manager *auth.SessionManager

	// in-memory state store for CSRF protection of the code flow
	mu     sync.Mutex
	states map[string]pendingLogin

	// stopCleanup terminates the cleanup goroutine of the previous Init.
	stopCleanup chan struct{}
}

// Handler is the login handler.
var Handler = Service{
	states: make(map[string]pendingLogin),
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, manager *auth.SessionManager, _ fiber.Handler) error {
	if app == nil || cfg == nil || manager == nil {
		log.Fatal().Msg(handler.ErrNilACMFatalLogMsg)
		return nil
	}

	s.cfg = cfg
	s.manager = manager

	app.Get(cfg.Webserver.RoutePrefix+Path, s.Login)
	app.Get(cfg.Webserver.RoutePrefix+CallbackPath, s.Callback)

	if s.stopCleanup != nil {
		close(s.stopCleanup)
	}

	s.stopCleanup = make(chan struct{})

	go s.cleanupStates(s.stopCleanup)

	return nil
}

// Login starts the OIDC authorization redirect. Inbound query parameters,
// notably callback_url, are forwarded onto the callback redirect URI so they
// survive the provider round trip.
func (s *Service) Login(c *fiber.Ctx) error {
	redirectURI := s.callbackURI(c)

	state := uniuri.NewLen(stateLen)

	s.mu.Lock()
	s.states[state] = pendingLogin{
		redirectURI: redirectURI,
		expiresAt:   time.Now().Add(stateTTL),
	}
	s.mu.Unlock()

	return c.Redirect(s.manager.AuthCodeURL(state, redirectURI))
}

// Callback completes the login: it verifies the state, exchanges the
// authorization code and answers a 302 redirect to the caller-supplied
// callback_url carrying the issued token in the authorization header.
func (s *Service) Callback(c *fiber.Ctx) error {
	callbackURL := c.Query("callback_url")
	if callbackURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "missing callback_url"})
	}

	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		log.Error().Msg("missing code or state in OIDC callback")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "invalid callback parameters"})
	}

	pending, ok := s.takeState(state)
	if !ok {
		log.Error().Msg("invalid or expired state token in OIDC callback")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "invalid state token"})
	}

	signed, claims, err := s.manager.CompleteLogin(c.UserContext(), code, pending.redirectURI)
	if err != nil {
		log.Error().Err(err).Msg("OIDC login failed")
		return handler.Error(c, err)
	}

	log.Info().Uint64("user_id", claims.UserID).Msg("OIDC login completed")

	c.Set(fiber.HeaderAuthorization, "Bearer "+signed)

	return c.Redirect(callbackURL)
}

// callbackURI builds the per-request OIDC redirect URI, forwarding the
// inbound query string. The exact same URI must be presented again during
// the code exchange.
func (s *Service) callbackURI(c *fiber.Ctx) string {
	base := strings.TrimSuffix(s.cfg.Webserver.URL, "/") + s.cfg.Webserver.RoutePrefix + CallbackPath

	query := string(c.Request().URI().QueryString())
	if query != "" {
		base += "?" + query
	}

	return base
}

// takeState removes and returns the pending login for a state token.
func (s *Service) takeState(state string) (pendingLogin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.states[state]
	if !ok {
		return pendingLogin{}, false
	}

	delete(s.states, state)

	if time.Now().After(pending.expiresAt) {
		return pendingLogin{}, false
	}

	return pending, true
}

// cleanupStates periodically removes expired state tokens until stop closes.
func (s *Service) cleanupStates(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now := time.Now()

			s.mu.Lock()
			for state, pending := range s.states {
				if now.After(pending.expiresAt) {
					delete(s.states, state)
				}
			}
			s.mu.Unlock()
		}
	}
}
