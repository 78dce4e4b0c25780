// Package gormstore implements the store contracts on a relational database
// through gorm. Pics and translations are kept as JSON columns so an activity
// stays a single row.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"activities-backend/internal/models"
	"activities-backend/internal/store"
)

type activityRecord struct {
	ID           string              `gorm:"primaryKey;type:varchar(36)"`
	Date         string              `gorm:"not null;index"`
	Pics         []string            `gorm:"serializer:json;not null"`
	Translations models.Translations `gorm:"serializer:json;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (activityRecord) TableName() string { return "activities" }

type userRecord struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Username  string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Role      string `gorm:"type:varchar(32);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRecord) TableName() string { return "users" }

// Migrate creates or updates the tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&activityRecord{}, &userRecord{})
}

// New migrates db and returns a Store over it.
func New(db *gorm.DB) (store.Store, error) {
	if err := Migrate(db); err != nil {
		return store.Store{}, fmt.Errorf("migration failed: %w", err)
	}
	return store.Store{
		Activities: &Activities{db: db},
		Users:      &Users{db: db},
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}, nil
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return store.ErrInvalidID
	}
	return nil
}

func (r activityRecord) toModel() models.Activity {
	a := models.Activity{
		ID:           r.ID,
		Date:         r.Date,
		Pics:         r.Pics,
		Translations: r.Translations,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	a.Normalize()
	return a
}

// Activities is the activities table.
type Activities struct {
	db *gorm.DB
}

// List implements store.ActivityStore.
func (r *Activities) List(ctx context.Context, skip, limit int64) ([]models.Activity, error) {
	var records []activityRecord
	err := r.db.WithContext(ctx).
		Order("date desc").
		Offset(int(skip)).
		Limit(int(limit)).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	out := make([]models.Activity, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toModel())
	}
	return out, nil
}

// Count implements store.ActivityStore.
func (r *Activities) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&activityRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count activities: %w", err)
	}
	return n, nil
}

// Get implements store.ActivityStore.
func (r *Activities) Get(ctx context.Context, id string) (*models.Activity, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var rec activityRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find activity %s: %w", id, err)
	}
	a := rec.toModel()
	return &a, nil
}

// Create implements store.ActivityStore.
func (r *Activities) Create(ctx context.Context, activity *models.Activity) error {
	activity.Normalize()
	rec := activityRecord{
		ID:           uuid.NewString(),
		Date:         activity.Date,
		Pics:         activity.Pics,
		Translations: activity.Translations,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("could not create activity: %w", err)
	}
	activity.ID = rec.ID
	activity.CreatedAt = rec.CreatedAt
	activity.UpdatedAt = rec.UpdatedAt
	return nil
}

// Update implements store.ActivityStore.
func (r *Activities) Update(ctx context.Context, activity *models.Activity) error {
	if err := checkID(activity.ID); err != nil {
		return err
	}
	activity.Normalize()
	res := r.db.WithContext(ctx).
		Model(&activityRecord{ID: activity.ID}).
		Select("date", "pics", "translations", "updated_at").
		Updates(activityRecord{
			Date:         activity.Date,
			Pics:         activity.Pics,
			Translations: activity.Translations,
			UpdatedAt:    time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("could not update activity %s: %w", activity.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	updated, err := r.Get(ctx, activity.ID)
	if err != nil {
		return err
	}
	*activity = *updated
	return nil
}

// Delete implements store.ActivityStore.
func (r *Activities) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&activityRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Users is the users table.
type Users struct {
	db *gorm.DB
}

func (r userRecord) toModel() *models.User {
	return &models.User{
		ID:        r.ID,
		Username:  r.Username,
		Password:  r.Password,
		Role:      r.Role,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// FindByID implements store.UserStore.
func (r *Users) FindByID(ctx context.Context, id string) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var rec userRecord
	err := r.db.WithContext(ctx).
		Omit("password").
		First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return rec.toModel(), nil
}

// FindByUsername implements store.UserStore.
func (r *Users) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return rec.toModel(), nil
}

// Create implements store.UserStore. The gorm.DB must be opened with
// TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
func (r *Users) Create(ctx context.Context, user *models.User) error {
	rec := userRecord{
		ID:       uuid.NewString(),
		Username: user.Username,
		Password: user.Password,
		Role:     user.Role,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("could not create user: %w", err)
	}
	user.ID = rec.ID
	user.CreatedAt = rec.CreatedAt
	user.UpdatedAt = rec.UpdatedAt
	return nil
}
