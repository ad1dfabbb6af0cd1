package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/oidcbridge/oidcbridge/internal/db/models"
)

// UserStore persists User records.
type UserStore struct {
	db *gorm.DB
}

// ByID returns the user with the given id, or ErrNotFound.
func (s *UserStore) ByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User

	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("failed to query user %d: %w", id, notFound(err))
	}

	return &user, nil
}

// ByEmail returns the user with the given email, or ErrNotFound.
// Email is the unique lookup key for provider-provisioned accounts.
func (s *UserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", notFound(err))
	}

	return &user, nil
}

// Create inserts a new user and fills in its generated id.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Update applies the given column values to the user with the given id.
// Only the listed fields are written, keeping update churn minimal.
func (s *UserStore) Update(ctx context.Context, id uint64, fields map[string]any) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update user %d: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update user %d: %w", id, ErrNotFound)
	}

	return nil
}
