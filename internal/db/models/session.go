package models

import "time"

// Session stores the provider token bundle obtained during login.
// At most one live session exists per user: every login deletes the prior
// session before inserting a fresh one, and a terminally failed refresh
// deletes the session entirely.
type Session struct {
	// ID is the unique identifier for the session.
	ID uint64 `gorm:"primaryKey"`
	// UserID is the owning user. Deleting the user removes the session (CASCADE).
	UserID uint64 `gorm:"not null;index"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// PlatformName tags the session with the configured platform.
	PlatformName string `gorm:"size:40;not null"`
	// TokenType is the OAuth2 token type, usually "Bearer".
	TokenType string `gorm:"size:40;not null"`
	// AccessToken is the provider access token.
	AccessToken string `gorm:"size:2000;not null"`
	// RefreshToken is the provider refresh token.
	RefreshToken string `gorm:"size:2000;not null"`
	// ExpiresAt is the unix timestamp when the access token expires.
	ExpiresAt int64
	// CreatedAt is the timestamp when the session was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the session was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Session model.
func (Session) TableName() string {
	return "sessions"
}
