package models

import "time"

// GroupMembership joins users to groups, unique per (user, group) pair.
// After any login or refresh the membership rows for a user exactly match
// the group names the identity provider reported at that moment; the
// reconciliation deletes and inserts only the difference, so unchanged
// memberships keep their row identity and timestamps.
type GroupMembership struct {
	// ID is the unique identifier for the membership.
	ID uint64 `gorm:"primaryKey"`
	// UserID is the member user. Deleting the user removes the membership (CASCADE).
	UserID uint64 `gorm:"not null;uniqueIndex:idx_user_group"`
	// GroupID is the group the user belongs to.
	GroupID uint64 `gorm:"not null;uniqueIndex:idx_user_group"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Group is the associated group (loaded via foreign key).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the user was added to the group (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the GroupMembership model.
func (GroupMembership) TableName() string {
	return "group_memberships"
}
