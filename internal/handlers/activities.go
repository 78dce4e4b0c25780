package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"activities-backend/internal/events"
	"activities-backend/internal/metrics"
	"activities-backend/internal/models"
	"activities-backend/internal/store"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ActivityRequest is the body accepted by create and update.
type ActivityRequest struct {
	Date         string               `json:"date"`
	Pics         []string             `json:"pics"`
	Translations *models.Translations `json:"translations"`
}

func positiveQuery(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// -----------------------------
// Read path
// -----------------------------

// ListActivities returns one page of activities, newest date first.
func (h *Handler) ListActivities(c *gin.Context) {
	page := positiveQuery(c, "page", defaultPage)
	limit := positiveQuery(c, "limit", defaultLimit)
	limit64 := int64(limit)

	ctx := c.Request.Context()
	total, err := h.Activities.Count(ctx)
	if err != nil {
		h.serverError(c, "count activities", err)
		return
	}

	items := []models.Activity{}
	hasMore := false
	// pages whose offset does not fit in an int64 lie past the end
	if int64(page-1) <= math.MaxInt64/limit64 {
		skip := int64(page-1) * limit64
		items, err = h.Activities.List(ctx, skip, limit64)
		if err != nil {
			h.serverError(c, "list activities", err)
			return
		}
		if items == nil {
			items = []models.Activity{}
		}
		hasMore = skip < total && limit64 < total-skip
	}

	c.JSON(http.StatusOK, gin.H{
		"activities":      items,
		"currentPage":     page,
		"totalPages":      int64(math.Ceil(float64(total) / float64(limit64))),
		"totalActivities": total,
		"hasMore":         hasMore,
	})
}

// GetActivity returns a single activity.
func (h *Handler) GetActivity(c *gin.Context) {
	activity, err := h.Activities.Get(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, activity)
	case errors.Is(err, store.ErrNotFound):
		msgError(c, http.StatusNotFound, "Activity not found")
	case errors.Is(err, store.ErrInvalidID):
		msgError(c, http.StatusBadRequest, "Invalid Activity ID")
	default:
		h.serverError(c, "get activity", err)
	}
}

// -----------------------------
// Write path
// -----------------------------

// CreateActivity stores a new activity. Date and both translations are required.
func (h *Handler) CreateActivity(c *gin.Context) {
	var body ActivityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Date == "" || body.Translations == nil ||
		body.Translations.EN == nil || body.Translations.AR == nil {
		jsonError(c, http.StatusBadRequest, "Missing required fields")
		return
	}

	activity := models.Activity{
		Date:         body.Date,
		Pics:         body.Pics,
		Translations: *body.Translations,
	}
	activity.Normalize()

	var verr *models.ValidationError
	if err := activity.Validate(); errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields", "fields": verr.Fields})
		return
	}

	if err := h.Activities.Create(c.Request.Context(), &activity); err != nil {
		h.serverError(c, "create activity", err)
		return
	}

	metrics.RecordActivityMutation(metrics.OpCreate)
	h.publish(c, events.NewActivityEvent(events.ActivityCreated, activity.ID, &activity))
	c.JSON(http.StatusCreated, activity)
}

// UpdateActivity loads, mutates and saves an activity. The date is kept when
// the request leaves it empty and translations are kept when absent, but pics
// is always replaced: a request without pics clears the list.
func (h *Handler) UpdateActivity(c *gin.Context) {
	var body ActivityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	activity, err := h.Activities.Get(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		msgError(c, http.StatusNotFound, "Activity not found")
		return
	}
	if err != nil {
		h.serverError(c, "load activity for update", err)
		return
	}

	if body.Date != "" {
		activity.Date = body.Date
	}
	activity.Pics = body.Pics
	if body.Translations != nil {
		activity.Translations = *body.Translations
	}
	activity.Normalize()

	if err := activity.ValidateUpdate(); err != nil {
		h.serverError(c, "update activity", err)
		return
	}

	err = h.Activities.Update(ctx, activity)
	if errors.Is(err, store.ErrNotFound) {
		// deleted between load and save
		msgError(c, http.StatusNotFound, "Activity not found")
		return
	}
	if err != nil {
		h.serverError(c, "update activity", err)
		return
	}

	metrics.RecordActivityMutation(metrics.OpUpdate)
	h.publish(c, events.NewActivityEvent(events.ActivityUpdated, activity.ID, activity))
	c.JSON(http.StatusOK, activity)
}

// DeleteActivity removes an activity.
func (h *Handler) DeleteActivity(c *gin.Context) {
	id := c.Param("id")
	err := h.Activities.Delete(c.Request.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		msgError(c, http.StatusNotFound, "Activity not found")
		return
	case errors.Is(err, store.ErrInvalidID):
		msgError(c, http.StatusBadRequest, "Invalid Activity ID")
		return
	default:
		h.serverError(c, "delete activity", err)
		return
	}

	metrics.RecordActivityMutation(metrics.OpDelete)
	h.publish(c, events.NewActivityEvent(events.ActivityDeleted, id, nil))
	c.JSON(http.StatusOK, gin.H{"msg": "Activity removed"})
}
