package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/oidcbridge/oidcbridge/internal/auth"
	"github.com/oidcbridge/oidcbridge/internal/config"
	"github.com/oidcbridge/oidcbridge/internal/db/store"
	fiberlogger "github.com/oidcbridge/oidcbridge/internal/logger/adapter/fiber"
	"github.com/oidcbridge/oidcbridge/internal/token"
	"github.com/oidcbridge/oidcbridge/internal/web/handler"
	"github.com/oidcbridge/oidcbridge/internal/web/handler/login"
	"github.com/oidcbridge/oidcbridge/internal/web/handler/logout"
	"github.com/oidcbridge/oidcbridge/internal/web/handler/user"
	authmiddleware "github.com/oidcbridge/oidcbridge/internal/web/middleware/auth"
)

// CheckAliveURI is the health probe path used by load balancers.
const CheckAliveURI = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// Register builds the authentication stack and mounts the login, callback,
// logout and user routes onto the given fiber app. It is shared between the
// standalone daemon and the embeddable surface.
func Register(ctx context.Context, app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	codec, err := token.NewCodec(cfg.Auth.Token.SecretKey, cfg.Auth.Token.Algorithm)
	if err != nil {
		return err
	}

	provider, err := auth.NewOIDCProvider(ctx, &auth.ProviderConfig{
		ClientID:     cfg.Auth.OIDC.ClientID,
		ClientSecret: cfg.Auth.OIDC.ClientSecret,
		ConfURL:      cfg.Auth.OIDC.ConfURL,
		Scopes:       cfg.Auth.OIDC.Scopes,
	})
	if err != nil {
		return err
	}

	manager := auth.NewSessionManager(store.New(db), provider, codec, auth.ManagerConfig{
		PlatformName:         cfg.Auth.OIDC.PlatformName,
		ExpPeriodDays:        cfg.Auth.Token.ExpPeriodDays,
		RefreshPeriodMinutes: cfg.Auth.Token.RefreshPeriodMinutes,
	})

	guard := authmiddleware.New(manager)

	handlers := []handler.Service{
		&login.Handler,
		&logout.Handler,
		&user.Handler,
	}

	for _, h := range handlers {
		if err := h.Init(app, cfg, manager, guard); err != nil {
			return err
		}
	}

	return nil
}

// New creates a new web service with the given configuration.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB) (*Service, error) {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "oidcbridge",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	// access logging
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAliveURI,
	}))

	service := &Service{
		cfg: cfg,
		App: app,
	}
	service.alive.Store(true)

	// health probe for load balancers
	app.Get(CheckAliveURI, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendStatus(fiber.StatusOK)
	})

	if err := Register(ctx, app, cfg, db); err != nil {
		return nil, err
	}

	return service, nil
}
