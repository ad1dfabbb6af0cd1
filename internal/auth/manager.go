package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/oidcbridge/oidcbridge/internal/db/models"
	"github.com/oidcbridge/oidcbridge/internal/db/store"
	"github.com/oidcbridge/oidcbridge/internal/token"
)

// ManagerConfig holds the session lifecycle settings.
type ManagerConfig struct {
	// PlatformName tags every created session.
	PlatformName string
	// ExpPeriodDays is the lifetime of an issued token, in days.
	ExpPeriodDays int
	// RefreshPeriodMinutes is the interval after which an issued token must
	// be re-validated against the identity provider, in minutes.
	RefreshPeriodMinutes int
}

// SessionManager orchestrates login completion, transparent session refresh,
// group reconciliation and logout.
//
// All store writes of one operation run inside a single transaction so that
// partial updates roll back together. Concurrent refreshes for the same user
// are not mutually excluded: each issues its own provider calls and session
// update, and the last writer wins.
type SessionManager struct {
	store    *store.Store
	provider IdentityProvider
	codec    *token.Codec
	cfg      ManagerConfig

	// now is the clock used for token timestamps, replaceable in tests.
	now func() time.Time
}

// NewSessionManager creates a SessionManager.
func NewSessionManager(st *store.Store, provider IdentityProvider, codec *token.Codec, cfg ManagerConfig) *SessionManager {
	return &SessionManager{
		store:    st,
		provider: provider,
		codec:    codec,
		cfg:      cfg,
		now:      time.Now,
	}
}

// AuthCodeURL returns the provider authorization URL for the given state
// token and redirect URI.
func (m *SessionManager) AuthCodeURL(state, redirectURI string) string {
	return m.provider.AuthCodeURL(state, redirectURI)
}

// CompleteLogin finishes the authorization-code flow: it exchanges the code,
// provisions or updates the user, replaces the user's session with a fresh
// one, reconciles group memberships against the provider-reported direct
// groups and returns a newly signed application token.
//
// The prior session is deleted unconditionally on every login, so any still
// valid bearer token tied to the old provider session is invalidated.
func (m *SessionManager) CompleteLogin(ctx context.Context, code, redirectURI string) (string, *token.Claims, error) {
	bundle, err := m.provider.Exchange(ctx, code, redirectURI)
	if err != nil {
		return "", nil, err
	}

	userinfo := bundle.Userinfo

	var user *models.User

	err = m.store.Transaction(ctx, func(tx *store.Store) error {
		user, err = tx.Users.ByEmail(ctx, userinfo.Email)

		switch {
		case errors.Is(err, store.ErrNotFound):
			user = &models.User{
				Name:          userinfo.Name,
				Nickname:      userinfo.Nickname,
				Email:         userinfo.Email,
				EmailVerified: userinfo.EmailVerified,
				Picture:       userinfo.Picture,
				Active:        true,
			}

			if err = tx.Users.Create(ctx, user); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err = tx.Users.Update(ctx, user.ID, map[string]any{
				"name":     userinfo.Name,
				"nickname": userinfo.Nickname,
				"picture":  userinfo.Picture,
				"active":   true,
			}); err != nil {
				return err
			}

			user.Name = userinfo.Name
			user.Nickname = userinfo.Nickname
			user.Picture = userinfo.Picture
			user.Active = true

			if err = tx.Sessions.DeleteByUserID(ctx, user.ID); err != nil {
				return err
			}
		}

		if err = tx.Sessions.Create(ctx, &models.Session{
			UserID:       user.ID,
			PlatformName: m.cfg.PlatformName,
			TokenType:    bundle.TokenType,
			AccessToken:  bundle.AccessToken,
			RefreshToken: bundle.RefreshToken,
			ExpiresAt:    bundle.ExpiresAt,
		}); err != nil {
			return err
		}

		return m.reconcileGroups(ctx, tx, user.ID, userinfo.GroupsDirect)
	})
	if err != nil {
		return "", nil, err
	}

	log.Info().Uint64("user_id", user.ID).Str("email", user.Email).Msg("user logged in via OIDC")

	return m.issueToken(user)
}

// ValidateOrRefresh validates an application token. A token past its expiry
// time is rejected outright with ErrAuthenticationFailed. While the token's
// next refresh time has not elapsed the decoded claims are returned as-is,
// with no store or provider call. Once stale, the login is re-validated
// against the identity provider, the user profile and group memberships are
// updated, and a rotated token is returned alongside the fresh claims.
//
// When the provider rejects both the stored access token and the refresh
// token, the user's session is cleared, the account deactivated, and the
// caller receives ErrAuthenticationFailed. The client must re-login.
func (m *SessionManager) ValidateOrRefresh(ctx context.Context, signed string) (*token.Claims, string, error) {
	claims, err := m.codec.Decode(signed)
	if err != nil {
		return nil, "", err
	}

	now := m.now().Unix()

	if claims.ExpiresAt <= now {
		return nil, "", fmt.Errorf("token expired: %w", ErrAuthenticationFailed)
	}

	if claims.NextRefreshAt > now {
		return claims, "", nil
	}

	var user *models.User

	err = m.store.Transaction(ctx, func(tx *store.Store) error {
		user, err = tx.Users.ByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAuthenticationFailed
			}

			return err
		}

		if !user.Active {
			return ErrAuthenticationFailed
		}

		session, err := tx.Sessions.ByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAuthenticationFailed
			}

			return err
		}

		userinfo, err := m.refreshUserinfo(ctx, tx, user.ID, session)
		if err != nil {
			return err
		}

		if err = m.applyProfileChanges(ctx, tx, user, userinfo); err != nil {
			return err
		}

		return m.reconcileGroups(ctx, tx, user.ID, userinfo.Groups)
	})
	if err != nil {
		return nil, "", err
	}

	rotated, claims, err := m.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	return claims, rotated, nil
}

// refreshUserinfo fetches userinfo with the stored access token, falling back
// to a single refresh-token exchange. A failed fallback is terminal: the
// session is cleared, the user deactivated and ErrAuthenticationFailed
// returned.
func (m *SessionManager) refreshUserinfo(
	ctx context.Context,
	tx *store.Store,
	userID uint64,
	session *models.Session,
) (*Userinfo, error) {
	userinfo, err := m.provider.FetchUserinfo(ctx, session.AccessToken)
	if err == nil {
		return userinfo, nil
	}

	log.Debug().Err(err).Uint64("user_id", userID).
		Msg("userinfo with access token failed, trying refresh token")

	bundle, err := m.provider.Refresh(ctx, session.RefreshToken)
	if err != nil {
		log.Debug().Err(err).Uint64("user_id", userID).
			Msg("refresh token exchange failed, clearing token info")

		if err = m.clearTokenInfo(ctx, tx, userID); err != nil {
			return nil, err
		}

		return nil, fmt.Errorf("token expired: %w", ErrAuthenticationFailed)
	}

	if err = tx.Sessions.Update(ctx, session.ID, map[string]any{
		"token_type":    bundle.TokenType,
		"access_token":  bundle.AccessToken,
		"refresh_token": bundle.RefreshToken,
		"expires_at":    bundle.ExpiresAt,
	}); err != nil {
		return nil, err
	}

	userinfo, err = m.provider.FetchUserinfo(ctx, bundle.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	return userinfo, nil
}

// applyProfileChanges diffs the stored user against the reported userinfo
// and updates only the changed fields.
func (m *SessionManager) applyProfileChanges(ctx context.Context, tx *store.Store, user *models.User, userinfo *Userinfo) error {
	fields := make(map[string]any)

	if user.Name != userinfo.Name {
		fields["name"] = userinfo.Name
		user.Name = userinfo.Name
	}

	if user.Nickname != userinfo.Nickname {
		fields["nickname"] = userinfo.Nickname
		user.Nickname = userinfo.Nickname
	}

	if user.Picture != userinfo.Picture {
		fields["picture"] = userinfo.Picture
		user.Picture = userinfo.Picture
	}

	if len(fields) == 0 {
		return nil
	}

	return tx.Users.Update(ctx, user.ID, fields)
}

// Logout clears the user's session and deactivates the account.
// It is best-effort and idempotent: a missing user or session is logged and
// swallowed.
func (m *SessionManager) Logout(ctx context.Context, userID uint64) error {
	err := m.store.Transaction(ctx, func(tx *store.Store) error {
		return m.clearTokenInfo(ctx, tx, userID)
	})
	if errors.Is(err, store.ErrNotFound) {
		log.Warn().Uint64("user_id", userID).Msg("logout for unknown user")
		return nil
	}

	return err
}

// UserByID returns the user record behind a set of claims.
// An inactive user fails with ErrAuthenticationFailed.
func (m *SessionManager) UserByID(ctx context.Context, userID uint64) (*models.User, error) {
	user, err := m.store.Users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.Active {
		return nil, ErrAuthenticationFailed
	}

	return user, nil
}

// clearTokenInfo deletes the user's session and marks the account inactive.
func (m *SessionManager) clearTokenInfo(ctx context.Context, tx *store.Store, userID uint64) error {
	if err := tx.Sessions.DeleteByUserID(ctx, userID); err != nil {
		return err
	}

	return tx.Users.Update(ctx, userID, map[string]any{"active": false})
}

// reconcileGroups brings the user's membership rows into exact agreement with
// the reported group names. Groups are created lazily; memberships no longer
// reported are deleted, new ones inserted, unchanged rows left untouched.
func (m *SessionManager) reconcileGroups(ctx context.Context, tx *store.Store, userID uint64, names []string) error {
	reported := make(map[uint64]struct{}, len(names))

	for _, name := range names {
		group, err := tx.Groups.ByName(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			group = &models.Group{Name: name}
			if err = tx.Groups.Create(ctx, group); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		reported[group.ID] = struct{}{}
	}

	memberships, err := tx.Groups.MembershipsByUserID(ctx, userID)
	if err != nil {
		return err
	}

	existing := make(map[uint64]uint64, len(memberships)) // group id -> membership row id
	for _, membership := range memberships {
		existing[membership.GroupID] = membership.ID
	}

	for groupID, membershipID := range existing {
		if _, ok := reported[groupID]; !ok {
			if err = tx.Groups.DeleteMembership(ctx, membershipID); err != nil {
				return err
			}
		}
	}

	for groupID := range reported {
		if _, ok := existing[groupID]; !ok {
			if err = tx.Groups.CreateMembership(ctx, &models.GroupMembership{
				UserID:  userID,
				GroupID: groupID,
			}); err != nil {
				return err
			}
		}
	}

	return nil
}

// issueToken signs a fresh application token for the user.
func (m *SessionManager) issueToken(user *models.User) (string, *token.Claims, error) {
	now := m.now()

	claims := &token.Claims{
		UserID:        user.ID,
		UserName:      user.Name,
		Email:         user.Email,
		IssuedAt:      now.Unix(),
		ExpiresAt:     now.AddDate(0, 0, m.cfg.ExpPeriodDays).Unix(),
		NextRefreshAt: now.Add(time.Duration(m.cfg.RefreshPeriodMinutes) * time.Minute).Unix(),
	}

	signed, err := m.codec.Encode(claims)
	if err != nil {
		return "", nil, err
	}

	return signed, claims, nil
}
