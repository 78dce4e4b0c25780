package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"activities-backend/internal/uploads"
)

const defaultMaxUploadBytes = 10 << 20

// UploadPicture stores the multipart "file" field and returns its URL, which
// clients then put into an activity's pics list.
func (h *Handler) UploadPicture(c *gin.Context) {
	maxBytes := h.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	// multipart framing needs a little room on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(c, http.StatusBadRequest, "File too large")
			return
		}
		jsonError(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	if fh.Size > maxBytes {
		jsonError(c, http.StatusBadRequest, fmt.Sprintf("File too large (max %d bytes)", maxBytes))
		return
	}

	contentType := fh.Header.Get("Content-Type")
	name, err := uploads.ObjectName(fh.Filename, contentType)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "Only image files are allowed")
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.serverError(c, "open upload", err)
		return
	}
	defer f.Close()

	url, err := h.Uploads.Save(c.Request.Context(), name, contentType, f, fh.Size)
	if err != nil {
		h.serverError(c, "store upload", err)
		return
	}

	h.log(c).Info(c.Request.Context(), "picture uploaded", "name", name, "size", fh.Size)
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
