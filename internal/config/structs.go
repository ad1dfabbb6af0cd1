package config

import (
	"github.com/oidcbridge/oidcbridge/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Auth      Auth
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string // domain name for the webserver
	Port         int    // listening port for the webserver
	ShutDownTime int    // wait time for shutdown
	URL          string `validate:"required"` // base url used to build the OIDC callback redirect URI
	RoutePrefix  string // prefix for the login/auth/logout/users routes, may be empty
}

// Auth groups the OIDC client and application token settings.
type Auth struct {
	OIDC  OIDC
	Token Token
}

// OIDC holds the relying-party client settings.
type OIDC struct {
	ClientID     string `validate:"required"`
	ClientSecret string `validate:"required"`
	ConfURL      string `validate:"required,url"` // provider discovery URL
	Scopes       []string
	PlatformName string // tag recorded on every session
}

// Token holds the application bearer token settings.
type Token struct {
	SecretKey            string `validate:"required"`
	Algorithm            string // HMAC variant, default HS256
	ExpPeriodDays        int    // token lifetime in days
	RefreshPeriodMinutes int    // staleness period in minutes
}
