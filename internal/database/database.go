// Package database opens the configured backend and returns it as a store.Store.
package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"activities-backend/internal/config"
	"activities-backend/internal/store"
	"activities-backend/internal/store/gormstore"
	"activities-backend/internal/store/memstore"
	"activities-backend/internal/store/mongostore"
)

const connectTimeout = 10 * time.Second

// Open connects to the backend selected by cfg.DBDriver.
func Open(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	case config.DriverPostgres:
		return OpenPostgres(cfg.PostgresDSN)
	case config.DriverMemory:
		return memstore.New(), nil
	default:
		return store.Store{}, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

// OpenMongo connects to MongoDB and pings the primary. An empty dbName falls
// back to the database named in the URI path.
func OpenMongo(ctx context.Context, uri, dbName string) (store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return store.Store{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return store.Store{}, fmt.Errorf("mongo ping: %w", err)
	}

	if dbName == "" {
		dbName = DatabaseFromURI(uri)
	}
	s, err := mongostore.New(ctx, client, client.Database(dbName))
	if err != nil {
		_ = client.Disconnect(context.Background())
		return store.Store{}, err
	}
	return s, nil
}

// OpenPostgres opens dsn through gorm and migrates the schema.
func OpenPostgres(dsn string) (store.Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return store.Store{}, fmt.Errorf("failed to connect: %w", err)
	}
	return gormstore.New(db)
}

// DatabaseFromURI extracts the database name from a mongodb:// URI path.
func DatabaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return config.DefaultMongoDB
}
