package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// ProviderConfig holds the OIDC relying-party configuration.
type ProviderConfig struct {
	// ClientID is the OAuth2 client identifier.
	ClientID string
	// ClientSecret is the OAuth2 client secret.
	ClientSecret string
	// ConfURL is the provider's OIDC discovery URL.
	ConfURL string
	// Scopes are the OAuth2 scopes to request (default: ["openid", "profile", "email"]).
	Scopes []string
}

// Userinfo is the identity profile reported by the provider.
type Userinfo struct {
	Name          string   `json:"name"`
	Nickname      string   `json:"nickname"`
	Email         string   `json:"email"`
	EmailVerified bool     `json:"email_verified"`
	Picture       string   `json:"picture"`
	Groups        []string `json:"groups"`
	GroupsDirect  []string `json:"groups_direct"`
}

// TokenBundle is the provider token set obtained from a code exchange or a
// refresh-token exchange.
type TokenBundle struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    int64
	Userinfo     *Userinfo
}

// IdentityProvider is the narrow surface of the identity provider consumed
// by the SessionManager.
type IdentityProvider interface {
	AuthCodeURL(state, redirectURI string) string
	Exchange(ctx context.Context, code, redirectURI string) (*TokenBundle, error)
	FetchUserinfo(ctx context.Context, accessToken string) (*Userinfo, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenBundle, error)
}

// OIDCProvider implements IdentityProvider against a real OIDC provider.
type OIDCProvider struct {
	provider *oidc.Provider
	oauth2   oauth2.Config
}

// NewOIDCProvider discovers the provider endpoints from the configured
// discovery URL and prepares the OAuth2 client. The redirect URI is not fixed
// here: it varies per request and is supplied to AuthCodeURL and Exchange.
func NewOIDCProvider(ctx context.Context, config *ProviderConfig) (*OIDCProvider, error) {
	provider, err := oidc.NewProvider(ctx, config.ConfURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	scopes := config.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	oauth2Config := oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint:     provider.Endpoint(),
		Scopes:       scopes,
	}

	return &OIDCProvider{
		provider: provider,
		oauth2:   oauth2Config,
	}, nil
}

// AuthCodeURL returns the provider authorization URL carrying the state token
// and the per-request redirect URI.
func (p *OIDCProvider) AuthCodeURL(state, redirectURI string) string {
	return p.oauth2.AuthCodeURL(state, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
}

// Exchange trades an authorization code for the provider token bundle and
// fetches the userinfo profile with the new access token.
func (p *OIDCProvider) Exchange(ctx context.Context, code, redirectURI string) (*TokenBundle, error) {
	oauth2Token, err := p.oauth2.Exchange(ctx, code, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange code: %v", ErrProviderAuth, err)
	}

	userinfo, err := p.FetchUserinfo(ctx, oauth2Token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderAuth, err)
	}

	return &TokenBundle{
		AccessToken:  oauth2Token.AccessToken,
		RefreshToken: oauth2Token.RefreshToken,
		TokenType:    oauth2Token.TokenType,
		ExpiresAt:    oauth2Token.Expiry.Unix(),
		Userinfo:     userinfo,
	}, nil
}

// FetchUserinfo queries the provider's userinfo endpoint with the given
// access token. It fails when the token is invalid or expired.
func (p *OIDCProvider) FetchUserinfo(ctx context.Context, accessToken string) (*Userinfo, error) {
	info, err := p.provider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to get userinfo: %w", err)
	}

	var userinfo Userinfo
	if err = info.Claims(&userinfo); err != nil {
		return nil, fmt.Errorf("failed to parse userinfo claims: %w", err)
	}

	return &userinfo, nil
}

// Refresh obtains a new token bundle from a refresh token.
// It fails when the refresh token is invalid or revoked.
func (p *OIDCProvider) Refresh(ctx context.Context, refreshToken string) (*TokenBundle, error) {
	tokenSource := p.oauth2.TokenSource(ctx, &oauth2.Token{
		RefreshToken: refreshToken,
	})

	oauth2Token, err := tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh access token: %w", err)
	}

	return &TokenBundle{
		AccessToken:  oauth2Token.AccessToken,
		RefreshToken: oauth2Token.RefreshToken,
		TokenType:    oauth2Token.TokenType,
		ExpiresAt:    oauth2Token.Expiry.Unix(),
	}, nil
}
