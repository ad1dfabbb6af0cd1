// Package store implements the persistence layer for users, sessions,
// groups and group memberships on top of GORM.
//
// Absence of a record is reported through the ErrNotFound sentinel so that
// callers branch on presence with errors.Is instead of inspecting driver
// errors. All stores honor the ambient transaction started with
// Store.Transaction: within the callback every operation runs against the
// same database transaction and rolls back together on error.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store bundles the entity stores over a shared database handle.
type Store struct {
	db       *gorm.DB
	Users    *UserStore
	Sessions *SessionStore
	Groups   *GroupStore
}

// New creates a Store over the given database handle.
func New(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Users:    &UserStore{db: db},
		Sessions: &SessionStore{db: db},
		Groups:   &GroupStore{db: db},
	}
}

// Transaction runs fn within a single database transaction. The Store passed
// to fn is scoped to that transaction; returning an error rolls back all
// writes made through it.
func (s *Store) Transaction(ctx context.Context, fn func(*Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// notFound translates gorm's record-not-found error to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	return err
}
