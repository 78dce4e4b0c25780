// Package mongostore implements the store contracts on MongoDB. Documents use
// the "activities" and "users" collections with camelCase timestamp fields.
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

const (
	activitiesCollection = "activities"
	usersCollection      = "users"
)

type translationDocument struct {
	Title       string `bson:"title"`
	Description string `bson:"description"`
}

type activityDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Date         string             `bson:"date"`
	Pics         []string           `bson:"pics"`
	Translations struct {
		EN *translationDocument `bson:"en,omitempty"`
		AR *translationDocument `bson:"ar,omitempty"`
	} `bson:"translations"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toTranslationDocument(t *models.Translation) *translationDocument {
	if t == nil {
		return nil
	}
	return &translationDocument{Title: t.Title, Description: t.Description}
}

func fromTranslationDocument(t *translationDocument) *models.Translation {
	if t == nil {
		return nil
	}
	return &models.Translation{Title: t.Title, Description: t.Description}
}

func (d activityDocument) toModel() models.Activity {
	a := models.Activity{
		ID:        d.ID.Hex(),
		Date:      d.Date,
		Pics:      d.Pics,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	a.Translations.EN = fromTranslationDocument(d.Translations.EN)
	a.Translations.AR = fromTranslationDocument(d.Translations.AR)
	a.Normalize()
	return a
}

func newActivityDocument(a *models.Activity) activityDocument {
	d := activityDocument{
		Date:      a.Date,
		Pics:      a.Pics,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	d.Translations.EN = toTranslationDocument(a.Translations.EN)
	d.Translations.AR = toTranslationDocument(a.Translations.AR)
	return d
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrInvalidID
	}
	return oid, nil
}

// Activities is the activities collection.
type Activities struct {
	coll *mongo.Collection
}

// NewActivities wraps the activities collection of db.
func NewActivities(db *mongo.Database) *Activities {
	return &Activities{coll: db.Collection(activitiesCollection)}
}

// List implements store.ActivityStore.
func (r *Activities) List(ctx context.Context, skip, limit int64) ([]models.Activity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find activities: %w", err)
	}
	var docs []activityDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}

	out := make([]models.Activity, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

// Count implements store.ActivityStore.
func (r *Activities) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count activities: %w", err)
	}
	return n, nil
}

// Get implements store.ActivityStore.
func (r *Activities) Get(ctx context.Context, id string) (*models.Activity, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc activityDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find activity %s: %w", id, err)
	}
	a := doc.toModel()
	return &a, nil
}

// Create implements store.ActivityStore.
func (r *Activities) Create(ctx context.Context, activity *models.Activity) error {
	activity.Normalize()
	now := time.Now().UTC().Truncate(time.Millisecond)
	activity.CreatedAt = now
	activity.UpdatedAt = now

	doc := newActivityDocument(activity)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	activity.ID = doc.ID.Hex()
	return nil
}

// Update implements store.ActivityStore.
func (r *Activities) Update(ctx context.Context, activity *models.Activity) error {
	oid, err := objectID(activity.ID)
	if err != nil {
		return err
	}
	activity.Normalize()
	activity.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	doc := newActivityDocument(activity)
	doc.ID = oid
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("replace activity %s: %w", activity.ID, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete implements store.ActivityStore.
func (r *Activities) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete activity %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
