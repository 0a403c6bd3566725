package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes images to a directory that the router serves
// as static files under PublicURL.
type LocalStorage struct {
	dir       string
	publicURL string
}

func NewLocalStorage(dir, publicURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Dir is the directory served as static files.
func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	path, clean, err := s.pathFor(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	return s.publicURL + "/" + clean, nil
}

// Delete ignores URLs that do not belong to this store and files already gone.
func (s *LocalStorage) Delete(_ context.Context, url string) error {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}

	path, _, err := s.pathFor(strings.TrimPrefix(url, prefix))
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

func (s *LocalStorage) KeyOf(url string) (string, bool) {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}

	raw := strings.TrimPrefix(url, prefix)
	_, clean, err := s.pathFor(raw)
	if err != nil || clean != raw {
		return "", false
	}
	return clean, true
}

// pathFor rejects keys that would escape the upload directory.
// The second return value is the cleaned, slash separated key.
func (s *LocalStorage) pathFor(key string) (string, string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	if clean == string(filepath.Separator) {
		return "", "", fmt.Errorf("invalid image key %q", key)
	}
	return filepath.Join(s.dir, clean), strings.TrimPrefix(filepath.ToSlash(clean), "/"), nil
}
