package oidcbridge

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func validOptions() Options {
	return Options{
		OAuthClientID:     "client-id",
		OAuthClientSecret: "client-secret",
		OAuthConfURL:      "https://accounts.example.com/.well-known/openid-configuration",
		SecretKey:         "signing-secret",
		BaseURL:           "https://app.example.com",
	}
}

func TestMountValidatesOptions(t *testing.T) {
	ctx := context.Background()
	app := fiber.New()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	tests := []struct {
		name   string
		app    *fiber.App
		db     *gorm.DB
		mutate func(*Options)
	}{
		{name: "nil app", app: nil, db: db, mutate: func(*Options) {}},
		{name: "nil db", app: app, db: nil, mutate: func(*Options) {}},
		{name: "missing client id", app: app, db: db, mutate: func(o *Options) { o.OAuthClientID = "" }},
		{name: "missing client secret", app: app, db: db, mutate: func(o *Options) { o.OAuthClientSecret = "" }},
		{name: "missing conf url", app: app, db: db, mutate: func(o *Options) { o.OAuthConfURL = "" }},
		{name: "missing secret key", app: app, db: db, mutate: func(o *Options) { o.SecretKey = "" }},
		{name: "missing base url", app: app, db: db, mutate: func(o *Options) { o.BaseURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)

			err := Mount(ctx, tt.app, tt.db, opts)
			assert.Error(t, err)
		})
	}
}

func TestDefaultHelpers(t *testing.T) {
	assert.Equal(t, "fallback", defaultString("", "fallback"))
	assert.Equal(t, "value", defaultString("value", "fallback"))
	assert.Equal(t, 7, defaultInt(0, 7))
	assert.Equal(t, 3, defaultInt(3, 7))
}
