// Package uploads stores activity pictures on local disk or in an
// S3-compatible bucket and returns the URL clients should reference.
package uploads

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for files that are not images.
var ErrUnsupportedType = errors.New("only image uploads are allowed")

// Storage persists an object and returns its public URL (absolute, or
// rooted at "/" for locally served files).
type Storage interface {
	Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error)
}

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectName returns a collision-free name for an upload, keeping a known
// image extension. contentType must be one of the allowed image types.
func ObjectName(original, contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", ErrUnsupportedType
	}
	defaultExt, ok := allowedTypes[mediaType]
	if !ok {
		return "", ErrUnsupportedType
	}
	ext := strings.ToLower(filepath.Ext(original))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		ext = defaultExt
	}
	return uuid.NewString() + ext, nil
}
