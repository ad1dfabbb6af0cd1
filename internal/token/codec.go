// Package token implements the application bearer token.
//
// The token is a self-contained JWT signed with a symmetric secret. Besides
// the standard iat/exp pair it carries a custom "nst" claim, the next refresh
// time: once it elapses the session manager re-validates the login against
// the identity provider before trusting the token further. The codec only
// signs and verifies; interpreting nst and exp is the session manager's job,
// so the parser runs without claim validation.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails signature verification or
// does not parse into the expected claim shape.
var ErrInvalidToken = errors.New("invalid token")

// ErrUnsupportedAlgorithm is returned when the configured signing algorithm
// is not an HMAC variant supported by the codec.
var ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

// Claims is the payload of the application bearer token.
type Claims struct {
	// UserID is the local user id the token was issued for.
	UserID uint64 `json:"user_id"`
	// UserName is the user's display name at issue time.
	UserName string `json:"user_name"`
	// Email is the user's email at issue time.
	Email string `json:"email"`
	// IssuedAt is the unix timestamp the token was signed.
	IssuedAt int64 `json:"iat"`
	// ExpiresAt is the unix timestamp the token expires outright.
	ExpiresAt int64 `json:"exp"`
	// NextRefreshAt is the unix timestamp after which the token must be
	// re-validated against the identity provider.
	NextRefreshAt int64 `json:"nst"`
}

// GetExpirationTime implements jwt.Claims.
func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(unix(c.ExpiresAt)), nil
}

// GetIssuedAt implements jwt.Claims.
func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(unix(c.IssuedAt)), nil
}

// GetNotBefore implements jwt.Claims.
func (c *Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

// GetIssuer implements jwt.Claims.
func (c *Claims) GetIssuer() (string, error) { return "", nil }

// GetSubject implements jwt.Claims.
func (c *Claims) GetSubject() (string, error) { return "", nil }

// GetAudience implements jwt.Claims.
func (c *Claims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

func unix(ts int64) time.Time {
	return time.Unix(ts, 0)
}

// Codec signs and verifies application tokens with a symmetric secret.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	parser *jwt.Parser
}

// NewCodec creates a codec for the given secret and algorithm.
// Supported algorithms are HS256 (the default when algorithm is empty),
// HS384 and HS512.
func NewCodec(secret, algorithm string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}

	if algorithm == "" {
		algorithm = "HS256"
	}

	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}

	return &Codec{
		secret: []byte(secret),
		method: method,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{algorithm}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Encode signs the claims and returns the compact token string.
func (c *Codec) Encode(claims *Claims) (string, error) {
	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Decode verifies the signature and returns the parsed claims.
// Any signature or shape failure is reported as ErrInvalidToken; expiry and
// staleness are not checked here.
func (c *Codec) Decode(raw string) (*Claims, error) {
	claims := new(Claims)

	parsed, err := c.parser.ParseWithClaims(raw, claims, func(_ *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
