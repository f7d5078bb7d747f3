// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig_Defaults(t *testing.T) {
	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Remote.Provider)
	assert.Equal(t, 5*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 5*time.Second, cfg.Sync.Debounce)
	assert.NotEmpty(t, cfg.App.DataDir)
	assert.NotEmpty(t, cfg.App.DBPath)
}

func TestGetConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("CLIPSYNC_REMOTE_BASE_URL", "https://drive.example.com")
	t.Setenv("CLIPSYNC_OAUTH_CLIENT_ID", "client-123")

	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://drive.example.com", cfg.Remote.BaseURL)
	assert.Equal(t, "client-123", cfg.OAuth.ClientID)
	// untouched fields keep their defaults
	assert.Equal(t, 15*time.Second, cfg.Remote.RequestTimeout)
}

func TestGetConfig_JSONFileMerged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	payload := map[string]any{
		"remote": map[string]any{"folder": "my-folder"},
		"oauth":  map[string]any{"client_secret": "sh"},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	t.Setenv("CLIPSYNC_CONFIG", path)

	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "my-folder", cfg.Remote.Folder)
	assert.Equal(t, "sh", cfg.OAuth.ClientSecret)
}

func TestGetConfig_EnvBeatsJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	raw, err := json.Marshal(map[string]any{"remote": map[string]any{"folder": "from-json"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	t.Setenv("CLIPSYNC_CONFIG", path)
	t.Setenv("CLIPSYNC_REMOTE_FOLDER", "from-env")

	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Remote.Folder)
}

func TestValidate_RejectsUnknownProvider(t *testing.T) {
	cfg := defaults()
	cfg.Remote.Provider = "gopher-cloud"

	assert.ErrorIs(t, cfg.validate(), ErrInvalidRemoteConfigs)
}

func TestValidate_S3RequiresBucketAndRegion(t *testing.T) {
	cfg := defaults()
	cfg.Remote.Provider = "s3"

	assert.ErrorIs(t, cfg.validate(), ErrInvalidRemoteConfigs)

	cfg.Remote.Bucket = "clips"
	cfg.Remote.Region = "eu-west-1"
	assert.NoError(t, cfg.validate())
}
