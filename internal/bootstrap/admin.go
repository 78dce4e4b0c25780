// Package bootstrap prepares the store before the server accepts traffic.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"activities-backend/internal/auth"
	"activities-backend/internal/logging"
	"activities-backend/internal/models"
	"activities-backend/internal/store"
)

// EnsureAdmin creates the default administrator when no user with username
// exists. It is safe to call on every start. The password is stored as a
// bcrypt hash.
func EnsureAdmin(ctx context.Context, users store.UserStore, username, password string, log logging.Logger) (bool, error) {
	_, err := users.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("look up admin user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{Username: username, Password: hash, Role: models.RoleAdmin}
	err = users.Create(ctx, &admin)
	if errors.Is(err, store.ErrDuplicate) {
		// another instance seeded it first
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create admin user: %w", err)
	}

	log.Info(ctx, "default admin user created", "username", username)
	return true, nil
}
