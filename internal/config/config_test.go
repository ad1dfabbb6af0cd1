package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTOML = `
Title = "oidcbridge"

[Webserver]
Port = 8080
URL = "https://app.example.com"

[DB]
GormEngine = "sqlite"
Name = "test.db"

[Auth.OIDC]
ClientID = "client-id"
ClientSecret = "client-secret"
ConfURL = "https://accounts.example.com/.well-known/openid-configuration"

[Auth.Token]
SecretKey = "signing-secret"
`

// writeConfig writes content as main.toml in a fresh directory and returns
// the directory path with a trailing separator, as ReadConfig expects.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(content), 0o600))

	return dir + string(os.PathSeparator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, validTOML))
	require.NoError(t, err)

	assert.Equal(t, "oidcbridge", cfg.Title)
	assert.Equal(t, 8080, cfg.Webserver.Port)
	assert.Equal(t, "https://app.example.com", cfg.Webserver.URL)
	assert.Equal(t, "client-id", cfg.Auth.OIDC.ClientID)
	assert.Equal(t, "signing-secret", cfg.Auth.Token.SecretKey)
}

func TestReadConfigAppliesDefaults(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, validTOML))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Webserver.ShutDownTime)
	assert.Equal(t, "HS256", cfg.Auth.Token.Algorithm)
	assert.Equal(t, 30, cfg.Auth.Token.ExpPeriodDays)
	assert.Equal(t, 10, cfg.Auth.Token.RefreshPeriodMinutes)
	assert.Equal(t, "default", cfg.Auth.OIDC.PlatformName)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir() + string(os.PathSeparator))
	assert.Error(t, err)
}

func TestReadConfigEnvOverride(t *testing.T) {
	t.Setenv("OIDCBRIDGE_CONFIG_JSON", `{"Title": "overridden", "Webserver": {"Port": 9090, "URL": "https://other.example.com"}}`)

	cfg, err := ReadConfig(writeConfig(t, validTOML))
	require.NoError(t, err)

	assert.Equal(t, "overridden", cfg.Title)
	assert.Equal(t, 9090, cfg.Webserver.Port)
	assert.Equal(t, "https://other.example.com", cfg.Webserver.URL)
	// untouched values survive the merge
	assert.Equal(t, "client-id", cfg.Auth.OIDC.ClientID)
}

func TestReadConfigInvalidEnvOverride(t *testing.T) {
	t.Setenv("OIDCBRIDGE_CONFIG_JSON", "{not json")

	_, err := ReadConfig(writeConfig(t, validTOML))
	assert.Error(t, err)
}

func TestReadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  string
		wantErr error
	}{
		{
			name:    "zero port",
			mutate:  `{"Webserver": {"Port": 0}}`,
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name:    "empty url",
			mutate:  `{"Webserver": {"URL": ""}}`,
			wantErr: ErrEmptyURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OIDCBRIDGE_CONFIG_JSON", tt.mutate)

			_, err := ReadConfig(writeConfig(t, validTOML))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadConfigRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate string
	}{
		{name: "missing client id", mutate: `{"Auth": {"OIDC": {"ClientID": ""}}}`},
		{name: "missing client secret", mutate: `{"Auth": {"OIDC": {"ClientSecret": ""}}}`},
		{name: "missing conf url", mutate: `{"Auth": {"OIDC": {"ConfURL": ""}}}`},
		{name: "conf url not a url", mutate: `{"Auth": {"OIDC": {"ConfURL": "not-a-url"}}}`},
		{name: "missing secret key", mutate: `{"Auth": {"Token": {"SecretKey": ""}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OIDCBRIDGE_CONFIG_JSON", tt.mutate)

			_, err := ReadConfig(writeConfig(t, validTOML))
			assert.Error(t, err)
		})
	}
}

func TestDumpConfig(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, validTOML))
	require.NoError(t, err)

	dump, err := DumpConfig(cfg)
	require.NoError(t, err)
	assert.Contains(t, dump, `Title = "oidcbridge"`)
	assert.Contains(t, dump, "[Webserver]")
}
