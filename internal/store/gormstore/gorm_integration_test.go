//go:build integration

package gormstore

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"activities-backend/internal/store/storetest"
)

func TestGormStoreContract(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("activities"),
		postgrescontainer.WithUsername("activities"),
		postgrescontainer.WithPassword("activities"),
		postgrescontainer.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, pg)
	require.NoError(t, err)

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	st, err := New(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	storetest.Run(t, storetest.Backend{
		Store:     st,
		MissingID: uuid.NewString(),
	})
}
