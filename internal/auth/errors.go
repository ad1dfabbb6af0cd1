package auth

import "errors"

var (
	// ErrProviderAuth is returned when the OIDC code exchange or another
	// provider call fails during login. It surfaces as HTTP 500.
	ErrProviderAuth = errors.New("provider authorization failed")

	// ErrAuthenticationFailed is returned when a session is expired, invalid
	// or belongs to an inactive user. It surfaces as a generic HTTP 401; the
	// underlying cause is not exposed to the client.
	ErrAuthenticationFailed = errors.New("authentication failed")
)
