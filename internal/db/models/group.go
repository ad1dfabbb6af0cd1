package models

import "time"

// Group represents a provider-reported group.
// Groups are created lazily the first time the identity provider reports a
// group name and are referenced, never owned, by memberships.
type Group struct {
	// ID is the unique identifier for the group.
	ID uint64 `gorm:"primaryKey"`
	// Name is the group name as reported by the identity provider.
	Name string `gorm:"size:100;not null;uniqueIndex"`
	// CreatedAt is the timestamp when the group was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the group was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Group model.
// This overrides GORM's default pluralized table naming.
func (Group) TableName() string {
	return "groups"
}
