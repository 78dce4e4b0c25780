// Package memstore keeps activities and users in process memory. It backs
// DB_DRIVER=memory for local development and the handler tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"activities-backend/internal/models"
	"activities-backend/internal/store"
)

// New returns a Store backed by fresh in-memory collections.
func New() store.Store {
	return store.Store{
		Activities: NewActivities(),
		Users:      NewUsers(),
		Close:      func(context.Context) error { return nil },
	}
}

// Activities stores activities keyed by ObjectID hex strings, so identifier
// validation matches the mongo backend.
type Activities struct {
	mu    sync.RWMutex
	items map[string]models.Activity
	now   func() time.Time
}

// NewActivities constructs an empty activity collection.
func NewActivities() *Activities {
	return &Activities{
		items: make(map[string]models.Activity),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func parseID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return store.ErrInvalidID
	}
	return nil
}

// List implements store.ActivityStore.
func (r *Activities) List(ctx context.Context, skip, limit int64) ([]models.Activity, error) {
	if skip < 0 {
		return nil, fmt.Errorf("negative skip %d", skip)
	}
	r.mu.RLock()
	all := make([]models.Activity, 0, len(r.items))
	for _, a := range r.items {
		all = append(all, clone(a))
	}
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Date != all[j].Date {
			return all[i].Date > all[j].Date
		}
		return all[i].ID > all[j].ID
	})

	n := int64(len(all))
	if skip >= n {
		return []models.Activity{}, nil
	}
	end := n
	if limit > 0 && limit < n-skip {
		end = skip + limit
	}
	return all[skip:end], nil
}

// Count implements store.ActivityStore.
func (r *Activities) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}

// Get implements store.ActivityStore.
func (r *Activities) Get(ctx context.Context, id string) (*models.Activity, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := clone(a)
	return &out, nil
}

// Create implements store.ActivityStore.
func (r *Activities) Create(ctx context.Context, activity *models.Activity) error {
	activity.Normalize()
	now := r.now()
	activity.ID = primitive.NewObjectID().Hex()
	activity.CreatedAt = now
	activity.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[activity.ID] = clone(*activity)
	return nil
}

// Update implements store.ActivityStore.
func (r *Activities) Update(ctx context.Context, activity *models.Activity) error {
	if err := parseID(activity.ID); err != nil {
		return err
	}
	activity.Normalize()

	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[activity.ID]
	if !ok {
		return store.ErrNotFound
	}
	activity.CreatedAt = existing.CreatedAt
	activity.UpdatedAt = r.now()
	r.items[activity.ID] = clone(*activity)
	return nil
}

// Delete implements store.ActivityStore.
func (r *Activities) Delete(ctx context.Context, id string) error {
	if err := parseID(id); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func clone(a models.Activity) models.Activity {
	out := a
	out.Pics = append([]string{}, a.Pics...)
	if a.Translations.EN != nil {
		en := *a.Translations.EN
		out.Translations.EN = &en
	}
	if a.Translations.AR != nil {
		ar := *a.Translations.AR
		out.Translations.AR = &ar
	}
	return out
}

// Users stores accounts with a unique username.
type Users struct {
	mu         sync.RWMutex
	byID       map[string]models.User
	byUsername map[string]string
}

// NewUsers constructs an empty user collection.
func NewUsers() *Users {
	return &Users{
		byID:       make(map[string]models.User),
		byUsername: make(map[string]string),
	}
}

// FindByID implements store.UserStore.
func (r *Users) FindByID(ctx context.Context, id string) (*models.User, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.Password = ""
	return &u, nil
}

// FindByUsername implements store.UserStore.
func (r *Users) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}

// Create implements store.UserStore.
func (r *Users) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUsername[user.Username]; exists {
		return store.ErrDuplicate
	}
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID().Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = *user
	r.byUsername[user.Username] = user.ID
	return nil
}
