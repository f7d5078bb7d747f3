package store

import (
	"context"

	"github.com/MKhiriev/go-clip-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ItemStore is the local clipboard-item database. All methods operate on the
// full item record; callers filter sync eligibility themselves via
// [models.ClipItem.Syncable].
type ItemStore interface {
	// List returns up to limit items ordered by most recently updated first.
	// A non-positive limit returns all items.
	List(ctx context.Context, limit int) ([]models.ClipItem, error)
	// Get returns the item with the given id or ErrItemNotFound.
	Get(ctx context.Context, id string) (models.ClipItem, error)
	// Put inserts the item or overwrites an existing one with the same id.
	Put(ctx context.Context, item models.ClipItem) error
	// Delete removes the item. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}

// ManifestStore persists the manifest of the last successful sync pass as a
// JSON file in the data directory. Load on a fresh install returns
// ErrManifestNotFound.
type ManifestStore interface {
	Load() (*models.SyncManifest, error)
	Save(manifest *models.SyncManifest) error
}

// SettingsStore persists the per-install sync settings document.
type SettingsStore interface {
	Load() (models.SyncSettings, error)
	Save(settings models.SyncSettings) error
}
