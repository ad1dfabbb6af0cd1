package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/oidcbridge/oidcbridge/internal/db/models"
)

// GroupStore persists Group records and user memberships.
type GroupStore struct {
	db *gorm.DB
}

// ByName returns the group with the given name, or ErrNotFound.
func (s *GroupStore) ByName(ctx context.Context, name string) (*models.Group, error) {
	var group models.Group

	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&group).Error; err != nil {
		return nil, fmt.Errorf("failed to query group %q: %w", name, notFound(err))
	}

	return &group, nil
}

// Create inserts a new group and fills in its generated id.
func (s *GroupStore) Create(ctx context.Context, group *models.Group) error {
	if err := s.db.WithContext(ctx).Create(group).Error; err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	return nil
}

// MembershipsByUserID returns all membership rows for the given user.
// An empty result is not an error.
func (s *GroupStore) MembershipsByUserID(ctx context.Context, userID uint64) ([]models.GroupMembership, error) {
	var memberships []models.GroupMembership

	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&memberships).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships for user %d: %w", userID, err)
	}

	return memberships, nil
}

// CreateMembership inserts a new membership row.
func (s *GroupStore) CreateMembership(ctx context.Context, membership *models.GroupMembership) error {
	if err := s.db.WithContext(ctx).Create(membership).Error; err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}

	return nil
}

// DeleteMembership removes the membership row with the given id.
func (s *GroupStore) DeleteMembership(ctx context.Context, id uint64) error {
	if err := s.db.WithContext(ctx).Delete(&models.GroupMembership{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete membership %d: %w", id, err)
	}

	return nil
}
