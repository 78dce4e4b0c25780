package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"activities-backend/internal/mailer"
	"activities-backend/internal/metrics"
)

// SendEmail relays the public contact form to the operator mailbox with the
// submitter as reply-to.
func (h *Handler) SendEmail(c *gin.Context) {
	var form mailer.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		metrics.RecordContactEmail(metrics.EmailRejected)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	if missing := form.Missing(); len(missing) > 0 {
		metrics.RecordContactEmail(metrics.EmailRejected)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Please provide " + strings.Join(missing, ", "),
		})
		return
	}

	ctx := c.Request.Context()
	msg, err := mailer.BuildContactEmail(form, h.Contact.From, h.Contact.To, time.Now())
	if err != nil {
		metrics.RecordContactEmail(metrics.EmailFailed)
		h.log(c).Error(ctx, "render contact email", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send email", "error": err.Error()})
		return
	}

	if err := h.Mailer.Send(ctx, msg); err != nil {
		metrics.RecordContactEmail(metrics.EmailFailed)
		h.log(c).Error(ctx, "send contact email", "error", err, "reply_to", form.Email)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send email", "error": err.Error()})
		return
	}

	metrics.RecordContactEmail(metrics.EmailSent)
	h.log(c).Info(ctx, "contact email sent", "reply_to", form.Email)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email sent successfully"})
}
