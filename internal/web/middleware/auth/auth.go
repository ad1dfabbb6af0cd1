package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/oidcbridge/oidcbridge/internal/token"
)

// ClaimsKey is the fiber.Locals key the resolved claims are stored under.
const ClaimsKey = "authClaims"

// TokenValidator validates an application bearer token and may rotate it.
type TokenValidator interface {
	ValidateOrRefresh(ctx context.Context, signed string) (*token.Claims, string, error)
}

// New creates the request-authentication middleware. It extracts the bearer
// token from the authorization header, validates it through the given
// validator and attaches the resolved claims to the request context. When the
// validator rotated the token, the new one is set on the response
// authorization header so the client can adopt it.
//
// Every failure answers 401 with a WWW-Authenticate: Bearer header and a
// generic detail, regardless of the underlying failure kind.
func New(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme, signed := schemeParam(c.Get(fiber.HeaderAuthorization))
		if signed == "" || !strings.EqualFold(scheme, "bearer") {
			return unauthorized(c, "No Authentication")
		}

		claims, rotated, err := validator.ValidateOrRefresh(c.UserContext(), signed)
		if err != nil {
			log.Debug().Err(err).Msg("token validation failed")
			return unauthorized(c, "Authentication failed")
		}

		c.Locals(ClaimsKey, claims)

		// assigned only when the token changed
		if rotated != "" {
			c.Set(fiber.HeaderAuthorization, "Bearer "+rotated)
		}

		return c.Next()
	}
}

// Claims returns the resolved claims attached by the middleware, or nil when
// the request did not pass through it.
func Claims(c *fiber.Ctx) *token.Claims {
	claims, _ := c.Locals(ClaimsKey).(*token.Claims)
	return claims
}

// schemeParam splits an authorization header value into scheme and parameter.
func schemeParam(header string) (string, string) {
	scheme, param, found := strings.Cut(header, " ")
	if !found {
		return "", ""
	}

	return scheme, param
}

func unauthorized(c *fiber.Ctx, detail string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": detail})
}
