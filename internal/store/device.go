package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-clip-sync/internal/utils"
)

const deviceIDFileName = "device-id"

// LoadOrCreateDeviceID returns the stable per-install device identifier,
// generating and persisting a new one in dataDir on first use. The id is
// written once and never rotated; it marks this install as the owner of the
// manifests it uploads.
func LoadOrCreateDeviceID(dataDir string) (string, error) {
	path := filepath.Join(dataDir, deviceIDFileName)

	data, err := os.ReadFile(path)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read device id file: %w", err)
	}

	id := utils.NewUUIDGenerator().Generate()
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write device id file: %w", err)
	}

	return id, nil
}
