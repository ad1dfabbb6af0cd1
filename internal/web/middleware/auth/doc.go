// Package auth provides the request-authentication middleware.
//
// The middleware implements silent refresh-by-replacement: a request carrying
// a still fresh token passes with no store or provider interaction, while a
// stale token is transparently re-validated against the identity provider and
// the rotated replacement is emitted on the response authorization header.
//
// The middleware performs the following tasks:
//   - Extracts the bearer token from the authorization header
//   - Validates or refreshes it through the session manager
//   - Attaches the resolved claims to fiber.Locals for handlers
//   - Answers 401 with WWW-Authenticate: Bearer on any failure
//
// Usage:
//
//	guard := authmiddleware.New(manager)
//	app.Get("/users", guard, userHandler)
package auth
