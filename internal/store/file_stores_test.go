package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-clip-sync/models"
)

// ─────────────────────────── device identity ────────────────────────

func TestLoadOrCreateDeviceID_CreatesOnFirstUse(t *testing.T) {
	dir := t.TempDir()

	id, err := LoadOrCreateDeviceID(dir)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// persisted to the device-id file
	data, err := os.ReadFile(filepath.Join(dir, deviceIDFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), id)
}

func TestLoadOrCreateDeviceID_StableAcrossCalls(t *testing.T) {
	dir := t.TempDir()

	first, err := LoadOrCreateDeviceID(dir)
	require.NoError(t, err)

	second, err := LoadOrCreateDeviceID(dir)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLoadOrCreateDeviceID_RespectsExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, deviceIDFileName), []byte("my-device\n"), 0o600))

	id, err := LoadOrCreateDeviceID(dir)
	require.NoError(t, err)
	assert.Equal(t, "my-device", id)
}

func TestLoadOrCreateDeviceID_RegeneratesWhenFileEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, deviceIDFileName), []byte("  \n"), 0o600))

	id, err := LoadOrCreateDeviceID(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

// ───────────────────────────── manifest ─────────────────────────────

func TestFileManifestStore_LoadMissing(t *testing.T) {
	s := NewFileManifestStore(t.TempDir())

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrManifestNotFound)
}

func TestFileManifestStore_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewFileManifestStore(dir)

	now := time.Now().UTC().Truncate(time.Second)
	manifest := models.NewSyncManifest("device-1")
	manifest.LastModified = now
	manifest.Items["item-1"] = models.ManifestEntry{
		ID:           "item-1",
		UpdatedAt:    now,
		Checksum:     "abc123",
		RemoteFileID: "remote-1",
	}
	manifest.Tombstones = []models.Tombstone{{ID: "item-2", DeletedAt: now}}

	require.NoError(t, s.Save(manifest))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, manifest, loaded)

	// no temp file left behind
	_, err = os.Stat(filepath.Join(dir, models.ManifestFileName+".tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileManifestStore_LoadInitializesNilItems(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, models.ManifestFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"deviceId":"d"}`), 0o600))

	loaded, err := NewFileManifestStore(dir).Load()
	require.NoError(t, err)
	assert.NotNil(t, loaded.Items)
}

func TestFileManifestStore_LoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, models.ManifestFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileManifestStore(dir).Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrManifestNotFound)
}

// ───────────────────────────── settings ─────────────────────────────

func TestFileSettingsStore_FreshInstallReturnsDefaults(t *testing.T) {
	s := NewFileSettingsStore(t.TempDir())

	settings, err := s.Load()
	require.NoError(t, err)
	assert.False(t, settings.Enabled)
	assert.Nil(t, settings.LastSyncedAt)
}

func TestFileSettingsStore_SaveLoadRoundTrip(t *testing.T) {
	s := NewFileSettingsStore(t.TempDir())

	syncedAt := time.Now().UTC().Truncate(time.Second)
	want := models.SyncSettings{Enabled: true, LastSyncedAt: &syncedAt}

	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileSettingsStore_WritesPreferencesFileOnly(t *testing.T) {
	require.NotEqual(t, models.SettingsFileName, models.SyncSettingsFileName,
		"sync preferences must not share a file with the synced settings document")

	dir := t.TempDir()
	s := NewFileSettingsStore(dir)
	require.NoError(t, s.Save(models.SyncSettings{Enabled: true}))

	_, err := os.Stat(filepath.Join(dir, models.SyncSettingsFileName))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, models.SettingsFileName))
	assert.True(t, os.IsNotExist(err))
}
