package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"housiee-backend/internal/config"
)

// ImageStore persists listing images and hands back the public URL.
type ImageStore interface {
	// Save stores data under key and returns the URL clients should use.
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete removes an object previously returned by Save, addressed by its URL.
	Delete(ctx context.Context, url string) error
	// KeyOf maps a URL served by this store back to its normalised key.
	// ok is false for foreign URLs and for paths that do not normalise to themselves.
	KeyOf(url string) (key string, ok bool)
}

// New returns the store selected by cfg.Storage.Driver.
func New(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	switch cfg.Storage.Driver {
	case "minio":
		return NewMinIOStorage(ctx, cfg.MinIO)
	case "local", "":
		return NewLocalStorage(cfg.Storage.LocalDir, cfg.Storage.PublicURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// ServiceImagePrefix is the key prefix every upload of one listing lives under.
func ServiceImagePrefix(serviceID uuid.UUID) string {
	return "services/" + serviceID.String() + "/"
}

// ServiceImageKey returns a fresh key for an upload of the listing.
func ServiceImageKey(serviceID uuid.UUID) string {
	return ServiceImagePrefix(serviceID) + uuid.NewString() + ".jpg"
}

// OwnedImages filters urls down to the images the store holds for serviceID.
// Anything else a listing references (external links, another listing's
// uploads) is left alone on cleanup.
func OwnedImages(store ImageStore, serviceID uuid.UUID, urls []string) []string {
	if store == nil {
		return nil
	}

	prefix := ServiceImagePrefix(serviceID)
	var owned []string
	for _, url := range urls {
		if key, ok := store.KeyOf(url); ok && strings.HasPrefix(key, prefix) {
			owned = append(owned, url)
		}
	}
	return owned
}
