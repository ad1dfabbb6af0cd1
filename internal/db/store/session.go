package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/oidcbridge/oidcbridge/internal/db/models"
)

// SessionStore persists Session records, at most one per user.
type SessionStore struct {
	db *gorm.DB
}

// ByUserID returns the session owned by the given user, or ErrNotFound.
func (s *SessionStore) ByUserID(ctx context.Context, userID uint64) (*models.Session, error) {
	var session models.Session

	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to query session for user %d: %w", userID, notFound(err))
	}

	return &session, nil
}

// Create inserts a new session and fills in its generated id.
func (s *SessionStore) Create(ctx context.Context, session *models.Session) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// Update applies the given column values to the session with the given id.
func (s *SessionStore) Update(ctx context.Context, id uint64, fields map[string]any) error {
	result := s.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update session %d: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update session %d: %w", id, ErrNotFound)
	}

	return nil
}

// DeleteByUserID removes the session owned by the given user.
// Deleting a user without a session is not an error.
func (s *SessionStore) DeleteByUserID(ctx context.Context, userID uint64) error {
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete session for user %d: %w", userID, err)
	}

	return nil
}
