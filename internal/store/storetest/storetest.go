// Package storetest holds behaviour tests every store.Store backend must pass.
package storetest

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activities-backend/internal/models"
	"activities-backend/internal/store"
)

// Backend describes the store under test. MissingID must be well-formed for
// the backend but absent from it.
type Backend struct {
	Store     store.Store
	MissingID string
}

func activity(date string) *models.Activity {
	return &models.Activity{
		Date: date,
		Pics: []string{"/uploads/" + date + ".jpg"},
		Translations: models.Translations{
			EN: &models.Translation{Title: "Title " + date, Description: "Description"},
			AR: &models.Translation{Title: "عنوان", Description: "وصف"},
		},
	}
}

// Run executes the shared suite against b, which must start empty.
func Run(t *testing.T, b Backend) {
	t.Run("activities", func(t *testing.T) { activities(t, b) })
	t.Run("users", func(t *testing.T) { users(t, b) })
}

func activities(t *testing.T, b Backend) {
	ctx := context.Background()
	repo := b.Store.Activities

	created := make([]*models.Activity, 0, 15)
	for i := 1; i <= 15; i++ {
		a := activity(fmt.Sprintf("2025-02-%02d", i))
		require.NoError(t, repo.Create(ctx, a))
		require.NotEmpty(t, a.ID)
		created = append(created, a)
	}

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 15, total)

	page, err := repo.List(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, page, 5)
	assert.Equal(t, "2025-02-05", page[0].Date)
	assert.Equal(t, "2025-02-01", page[4].Date)

	rest, err := repo.List(ctx, 1, math.MaxInt64)
	require.NoError(t, err)
	require.Len(t, rest, 14)
	assert.Equal(t, "2025-02-14", rest[0].Date)

	first := created[0]
	got, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Date, got.Date)
	assert.Equal(t, first.Pics, got.Pics)
	assert.Equal(t, *first.Translations.EN, *got.Translations.EN)
	assert.Equal(t, *first.Translations.AR, *got.Translations.AR)

	got.Date = "2025-03-01"
	got.Pics = nil
	require.NoError(t, repo.Update(ctx, got))
	reloaded, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", reloaded.Date)
	assert.Equal(t, []string{}, reloaded.Pics)
	assert.Equal(t, first.CreatedAt.Unix(), reloaded.CreatedAt.Unix())

	_, err = repo.Get(ctx, b.MissingID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.Get(ctx, "not-an-id")
	assert.ErrorIs(t, err, store.ErrInvalidID)

	missing := activity("2025-09-09")
	missing.ID = b.MissingID
	assert.ErrorIs(t, repo.Update(ctx, missing), store.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), store.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "not-an-id"), store.ErrInvalidID)
}

func users(t *testing.T, b Backend) {
	ctx := context.Background()
	repo := b.Store.Users

	u := &models.User{Username: "editor", Password: "hash", Role: models.RoleEditor}
	require.NoError(t, repo.Create(ctx, u))
	require.NotEmpty(t, u.ID)

	dup := &models.User{Username: "editor", Password: "x", Role: models.RoleAdmin}
	assert.ErrorIs(t, repo.Create(ctx, dup), store.ErrDuplicate)

	byName, err := repo.FindByUsername(ctx, "editor")
	require.NoError(t, err)
	assert.Equal(t, "hash", byName.Password)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "editor", byID.Username)
	assert.Equal(t, models.RoleEditor, byID.Role)
	assert.Empty(t, byID.Password)

	_, err = repo.FindByID(ctx, b.MissingID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
