package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activities-backend/internal/auth"
	"activities-backend/internal/logging"
	"activities-backend/internal/models"
	"activities-backend/internal/store"
	"activities-backend/internal/store/memstore"
)

func TestEnsureAdmin_Idempotent(t *testing.T) {
	ctx := context.Background()
	users := memstore.NewUsers()

	created, err := EnsureAdmin(ctx, users, "admin", "adminpassword", logging.Nop())
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureAdmin(ctx, users, "admin", "other", logging.Nop())
	require.NoError(t, err)
	assert.False(t, created)

	u, err := users.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.NotEqual(t, "adminpassword", u.Password)
	assert.True(t, auth.CheckPassword(u.Password, "adminpassword"))
}

type brokenUsers struct{ store.UserStore }

func (brokenUsers) FindByUsername(context.Context, string) (*models.User, error) {
	return nil, errors.New("connection reset")
}

func TestEnsureAdmin_LookupError(t *testing.T) {
	_, err := EnsureAdmin(context.Background(), brokenUsers{}, "admin", "pw", logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
