package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage writes files into Dir, which the server exposes under URLPrefix.
type LocalStorage struct {
	Dir       string
	URLPrefix string
}

// NewLocalStorage creates dir if needed.
func NewLocalStorage(dir, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStorage{Dir: dir, URLPrefix: urlPrefix}, nil
}

// Save implements Storage.
func (s *LocalStorage) Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	path := filepath.Join(s.Dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return s.URLPrefix + "/" + name, nil
}
