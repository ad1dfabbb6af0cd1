package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oidcbridge/oidcbridge/internal/token"
)

// fakeValidator returns canned claims, a canned rotated token or a canned
// error, and records the token it was handed.
type fakeValidator struct {
	claims  *token.Claims
	rotated string
	err     error

	gotToken string
}

func (v *fakeValidator) ValidateOrRefresh(_ context.Context, signed string) (*token.Claims, string, error) {
	v.gotToken = signed

	if v.err != nil {
		return nil, "", v.err
	}

	return v.claims, v.rotated, nil
}

func newTestApp(validator *fakeValidator) *fiber.App {
	app := fiber.New()

	app.Get("/protected", New(validator), func(c *fiber.Ctx) error {
		claims := Claims(c)
		return c.JSON(fiber.Map{"user_id": claims.UserID})
	})

	return app
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	app := newTestApp(&fakeValidator{})

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "scheme only", header: "Bearer"},
		{name: "no scheme", header: "some-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "Bearer", resp.Header.Get(fiber.HeaderWWWAuthenticate))
		})
	}
}

func TestMiddlewareRejectsInvalidToken(t *testing.T) {
	app := newTestApp(&fakeValidator{err: token.ErrInvalidToken})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer bad-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get(fiber.HeaderWWWAuthenticate))
}

func TestMiddlewarePassesClaims(t *testing.T) {
	validator := &fakeValidator{claims: &token.Claims{UserID: 42}}
	app := newTestApp(validator)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "good-token", validator.gotToken)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id": 42}`, string(body))

	// no rotation, so no authorization header on the response
	assert.Empty(t, resp.Header.Get(fiber.HeaderAuthorization))
}

func TestMiddlewareSetsRotatedToken(t *testing.T) {
	validator := &fakeValidator{claims: &token.Claims{UserID: 42}, rotated: "fresh-token"}
	app := newTestApp(validator)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "bearer good-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bearer fresh-token", resp.Header.Get(fiber.HeaderAuthorization))
}

func TestClaimsWithoutMiddleware(t *testing.T) {
	app := fiber.New()

	app.Get("/open", func(c *fiber.Ctx) error {
		assert.Nil(t, Claims(c))
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/open", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
