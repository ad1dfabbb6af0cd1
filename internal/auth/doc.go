// Package auth implements the authentication core of the OIDC add-on.
//
// It is a relying-party client only: users authenticate against an external
// OpenID Connect provider, and this package turns the provider handshake into
// application state.
//
// # Components
//
// OIDCProvider wraps the provider's authorization-code flow, userinfo and
// token-refresh endpoints on top of go-oidc and oauth2. The SessionManager
// consumes it through the IdentityProvider interface.
//
// SessionManager orchestrates the session lifecycle:
//   - CompleteLogin: exchange an authorization code, provision or update the
//     user, replace the user's session, reconcile group memberships and issue
//     a signed application token.
//   - ValidateOrRefresh: trust a token until its next-refresh time elapses,
//     then transparently re-validate against the provider, falling back to a
//     single refresh-token exchange before terminally logging the user out.
//   - Logout: best-effort session removal and deactivation.
//
// # Group synchronization
//
// On every login and refresh the user's group memberships are reconciled
// against the provider-reported group names: unknown groups are created
// lazily, memberships no longer reported are deleted, new ones are inserted,
// and unchanged rows keep their identity.
//
// Example usage:
//
//	provider, err := auth.NewOIDCProvider(ctx, &auth.ProviderConfig{...})
//	manager := auth.NewSessionManager(store, provider, codec, auth.ManagerConfig{...})
//
//	signed, _, err := manager.CompleteLogin(ctx, code, redirectURI)
//	claims, rotated, err := manager.ValidateOrRefresh(ctx, signed)
package auth
