package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-clip-sync/models"
)

// fileSettingsStore persists the sync preferences as sync-settings.json in
// the data dir. The file is local-only state, kept apart from the synced
// settings document so a sync pass never picks it up. Load on a fresh install
// returns the zero settings (sync disabled) without error.
type fileSettingsStore struct {
	path string
}

func NewFileSettingsStore(dataDir string) SettingsStore {
	return &fileSettingsStore{
		path: filepath.Join(dataDir, models.SyncSettingsFileName),
	}
}

func (s *fileSettingsStore) Load() (models.SyncSettings, error) {
	var settings models.SyncSettings

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	if err = json.Unmarshal(data, &settings); err != nil {
		return models.SyncSettings{}, fmt.Errorf("decode settings file: %w", err)
	}

	return settings, nil
}

func (s *fileSettingsStore) Save(settings models.SyncSettings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err = os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}

	return nil
}
