// Package store defines the persistence contracts shared by the mongo, gorm
// and in-memory backends.
package store

import (
	"context"
	"errors"

	"activities-backend/internal/models"
)

var (
	// ErrNotFound is returned when no document matches the identifier.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidID is returned when an identifier is not well-formed for the backend.
	ErrInvalidID = errors.New("invalid identifier")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// ActivityStore persists activities.
//
// List returns activities ordered by date descending. Update replaces the
// stored document with a wholesale; there is no field merge.
type ActivityStore interface {
	List(ctx context.Context, skip, limit int64) ([]models.Activity, error)
	Count(ctx context.Context) (int64, error)
	Get(ctx context.Context, id string) (*models.Activity, error)
	Create(ctx context.Context, activity *models.Activity) error
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id string) error
}

// UserStore persists users. FindByID never returns the password.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// Store bundles the collections opened by a backend.
type Store struct {
	Activities ActivityStore
	Users      UserStore
	Close      func(ctx context.Context) error
}
