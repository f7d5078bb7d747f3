package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-clip-sync/models"
)

// fileManifestStore persists the last successfully synced manifest as
// manifest.json in the data dir. Save writes to a temp file and renames so a
// crash mid-write never leaves a truncated manifest behind.
type fileManifestStore struct {
	path string
}

func NewFileManifestStore(dataDir string) ManifestStore {
	return &fileManifestStore{
		path: filepath.Join(dataDir, models.ManifestFileName),
	}
}

func (s *fileManifestStore) Load() (*models.SyncManifest, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrManifestNotFound
		}
		return nil, fmt.Errorf("read manifest file: %w", err)
	}

	var manifest models.SyncManifest
	if err = json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decode manifest file: %w", err)
	}
	if manifest.Items == nil {
		manifest.Items = make(map[string]models.ManifestEntry)
	}

	return &manifest, nil
}

func (s *fileManifestStore) Save(manifest *models.SyncManifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write manifest file: %w", err)
	}
	if err = os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace manifest file: %w", err)
	}

	return nil
}
