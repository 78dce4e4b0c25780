package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"activities-backend/internal/store"
)

// New builds a Store over db. The client is disconnected by Store.Close.
func New(ctx context.Context, client *mongo.Client, db *mongo.Database) (store.Store, error) {
	users := NewUsers(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return store.Store{}, err
	}
	return store.Store{
		Activities: NewActivities(db),
		Users:      users,
		Close:      client.Disconnect,
	}, nil
}
