// Package events publishes activity change notifications.
package events

import (
	"context"
	"time"

	"activities-backend/internal/models"
)

// Event types.
const (
	ActivityCreated = "activity.created"
	ActivityUpdated = "activity.updated"
	ActivityDeleted = "activity.deleted"
)

// ActivityEvent describes one successful write. Activity is nil for deletes.
type ActivityEvent struct {
	Type       string           `json:"type"`
	ActivityID string           `json:"activityId"`
	OccurredAt time.Time        `json:"occurredAt"`
	Activity   *models.Activity `json:"activity,omitempty"`
}

// NewActivityEvent stamps an event for activity id.
func NewActivityEvent(eventType, id string, activity *models.Activity) ActivityEvent {
	return ActivityEvent{
		Type:       eventType,
		ActivityID: id,
		OccurredAt: time.Now().UTC(),
		Activity:   activity,
	}
}

// Publisher delivers activity events.
type Publisher interface {
	Publish(ctx context.Context, event ActivityEvent) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

// Publish performs no action.
func (NoopPublisher) Publish(context.Context, ActivityEvent) error { return nil }

// Close performs no action.
func (NoopPublisher) Close() error { return nil }
