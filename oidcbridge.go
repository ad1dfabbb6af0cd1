// Package oidcbridge is an embeddable OIDC authentication add-on for Fiber
// applications.
//
// It performs the OAuth2/OIDC login handshake against an external identity
// provider, mints and verifies self-contained application bearer tokens, and
// keeps user, session and group records in sync with the provider on every
// login and transparent refresh.
//
// Mount registers the login, callback, logout and user-info routes onto a
// caller-supplied fiber app:
//
//	app := fiber.New()
//	err := oidcbridge.Mount(ctx, app, db, oidcbridge.Options{
//		OAuthClientID:     "client-id",
//		OAuthClientSecret: "client-secret",
//		OAuthConfURL:      "https://accounts.example.com/.well-known/openid-configuration",
//		SecretKey:         "token-signing-secret",
//		BaseURL:           "https://app.example.com",
//	})
//
// Schema migration is a deployment concern and is not performed here; the
// standalone daemon migrates explicitly at startup.
package oidcbridge

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/oidcbridge/oidcbridge/internal/config"
	"github.com/oidcbridge/oidcbridge/internal/web"
)

// Options configures the embedded authentication add-on.
// Zero values fall back to the documented defaults.
type Options struct {
	// OAuthClientID is the OIDC client identifier. Required.
	OAuthClientID string
	// OAuthClientSecret is the OIDC client secret. Required.
	OAuthClientSecret string
	// OAuthConfURL is the provider's OIDC discovery URL. Required.
	OAuthConfURL string
	// Scopes are the OAuth2 scopes to request (default: openid, profile, email).
	Scopes []string

	// SecretKey signs the application bearer token. Required.
	SecretKey string
	// Algorithm is the HMAC signing algorithm (default: HS256).
	Algorithm string
	// ExpPeriodDays is the token lifetime in days (default: 30).
	ExpPeriodDays int
	// RefreshPeriodMinutes is the staleness period in minutes (default: 10).
	RefreshPeriodMinutes int

	// Platform tags every created session (default: "default").
	Platform string
	// RoutePrefix prefixes the mounted routes, may be empty.
	RoutePrefix string
	// BaseURL is the externally visible base URL used to build the OIDC
	// callback redirect URI. Required.
	BaseURL string
}

// Mount registers the authentication routes and the request guard onto the
// given fiber app. The database handle must point to an already migrated
// schema.
func Mount(ctx context.Context, app *fiber.App, db *gorm.DB, opts Options) error {
	if app == nil {
		return errors.New("missing app parameter, it is required")
	}

	if db == nil {
		return errors.New("missing database parameter, it is required")
	}

	if opts.OAuthClientID == "" || opts.OAuthClientSecret == "" || opts.OAuthConfURL == "" {
		return errors.New("missing oauth parameters, they are required")
	}

	if opts.SecretKey == "" {
		return errors.New("missing secret key parameter, it is required")
	}

	if opts.BaseURL == "" {
		return errors.New("missing base url parameter, it is required")
	}

	cfg := config.Config{
		Webserver: config.Webserver{
			URL:         opts.BaseURL,
			RoutePrefix: opts.RoutePrefix,
		},
		Auth: config.Auth{
			OIDC: config.OIDC{
				ClientID:     opts.OAuthClientID,
				ClientSecret: opts.OAuthClientSecret,
				ConfURL:      opts.OAuthConfURL,
				Scopes:       opts.Scopes,
				PlatformName: defaultString(opts.Platform, "default"),
			},
			Token: config.Token{
				SecretKey:            opts.SecretKey,
				Algorithm:            defaultString(opts.Algorithm, "HS256"),
				ExpPeriodDays:        defaultInt(opts.ExpPeriodDays, 30),
				RefreshPeriodMinutes: defaultInt(opts.RefreshPeriodMinutes, 10),
			},
		},
	}

	return web.Register(ctx, app, &cfg, db)
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}

	return value
}
