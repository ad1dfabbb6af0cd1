// Package models contains database model definitions.
package models

import "time"

// User represents an identity record provisioned from the OIDC provider.
// A user is created on the first successful login for a given email and is
// updated from provider userinfo on every subsequent login or token refresh.
// The Active flag is the sole authorization gate: an inactive user fails
// every authenticated request until the next login.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Name is the display name reported by the identity provider.
	Name string `gorm:"size:100;not null"`
	// Nickname is the short name reported by the identity provider.
	Nickname string `gorm:"size:100"`
	// Email is the unique, immutable lookup key for the user.
	Email string `gorm:"size:200;not null;uniqueIndex"`
	// EmailVerified mirrors the provider's email_verified claim.
	EmailVerified bool
	// Picture is the avatar URL reported by the identity provider.
	Picture string `gorm:"size:1000"`
	// Active indicates whether the user currently holds a valid login.
	Active bool
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
// This overrides GORM's default pluralized table naming.
func (User) TableName() string {
	return "users"
}
