// Package handlers implements the HTTP handlers for activities, the contact
// form, authentication and picture uploads.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"activities-backend/internal/auth"
	"activities-backend/internal/events"
	"activities-backend/internal/logging"
	"activities-backend/internal/mailer"
	"activities-backend/internal/store"
	"activities-backend/internal/uploads"
)

// ContactSettings addresses the contact form email.
type ContactSettings struct {
	From string
	To   string
}

// Handler holds the process-wide handles shared by every request.
type Handler struct {
	Activities store.ActivityStore
	Users      store.UserStore
	Tokens     *auth.Tokens
	Mailer     mailer.Mailer
	Contact    ContactSettings
	Events     events.Publisher
	Uploads    uploads.Storage
	// MaxUploadBytes caps the multipart file size; zero means 10 MiB.
	MaxUploadBytes int64
	Logger         logging.Logger
}

// -----------------------------
// Helper functions
// -----------------------------

func jsonError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"message": msg})
}

// msgError answers with the {"msg": ...} body used by the activity routes.
func msgError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"msg": msg})
}

// serverError logs err and answers with the generic plaintext 500.
func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	h.log(c).Error(c.Request.Context(), msg, "error", err)
	c.String(http.StatusInternalServerError, "Server Error")
}

func (h *Handler) log(c *gin.Context) logging.Logger {
	fallback := h.Logger
	if fallback == nil {
		fallback = logging.Nop()
	}
	return logging.FromGin(c, fallback)
}

// publish hands an activity event to the publisher. Failures are logged only.
func (h *Handler) publish(c *gin.Context, event events.ActivityEvent) {
	if h.Events == nil {
		return
	}
	ctx := c.Request.Context()
	if err := h.Events.Publish(ctx, event); err != nil {
		h.log(c).Warn(ctx, "publish activity event failed",
			"type", event.Type, "activity_id", event.ActivityID, "error", err)
	}
}
