package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"activities-backend/internal/models"
	"activities-backend/internal/store"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password,omitempty"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d userDocument) toModel() *models.User {
	return &models.User{
		ID:        d.ID.Hex(),
		Username:  d.Username,
		Password:  d.Password,
		Role:      d.Role,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// Users is the users collection.
type Users struct {
	coll *mongo.Collection
}

// NewUsers wraps the users collection of db.
func NewUsers(db *mongo.Database) *Users {
	return &Users{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique username index.
func (r *Users) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}
	return nil
}

// FindByID implements store.UserStore. The password field is projected out.
func (r *Users) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOne().SetProjection(bson.M{"password": 0})
	return r.findOne(ctx, bson.M{"_id": oid}, opts)
}

// FindByUsername implements store.UserStore.
func (r *Users) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *Users) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toModel(), nil
}

// Create implements store.UserStore.
func (r *Users) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Username:  user.Username,
		Password:  user.Password,
		Role:      user.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = doc.ID.Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}
