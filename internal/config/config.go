// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the top-level configuration container for the go-clip-sync
// application. It aggregates all sub-configurations and is populated by
// merging built-in defaults, an optional JSON file, and environment
// variables.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
//   - json      — field name inside the optional JSON config file.
type Config struct {
	// App holds application-level settings such as the local data directory.
	App App `envPrefix:"CLIPSYNC_APP_" json:"app,omitempty"`

	// OAuth holds the client credentials and provider endpoints used by the
	// credential manager's authorization-code flow.
	OAuth OAuth `envPrefix:"CLIPSYNC_OAUTH_" json:"oauth,omitempty"`

	// Remote selects and configures the remote store backend.
	Remote Remote `envPrefix:"CLIPSYNC_REMOTE_" json:"remote,omitempty"`

	// Sync holds scheduler timings for the orchestrator.
	Sync Sync `envPrefix:"CLIPSYNC_SYNC_" json:"sync,omitempty"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the defaults
	// before environment variables are applied.
	JSONFilePath string `env:"CLIPSYNC_CONFIG" json:"-"`
}

// App holds application-level configuration values.
type App struct {
	// DataDir is the directory holding the local item database, the device
	// id file, the persisted manifest, and the encrypted token file.
	DataDir string `env:"DATA_DIR" json:"data_dir"`

	// DBPath is the SQLite database file for the local item store. Defaults
	// to clipsync.db inside DataDir.
	DBPath string `env:"DB_PATH" json:"db_path"`
}

// OAuth holds the user-supplied client credentials and the provider's
// endpoint URLs. ClientID and ClientSecret have no defaults; login fails
// until the user configures them.
type OAuth struct {
	ClientID     string `env:"CLIENT_ID" json:"client_id"`
	ClientSecret string `env:"CLIENT_SECRET" json:"client_secret"`
	AuthURL      string `env:"AUTH_URL" json:"auth_url"`
	TokenURL     string `env:"TOKEN_URL" json:"token_url"`
	// Scopes is a space-separated scope list requested at consent.
	Scopes string `env:"SCOPES" json:"scopes"`
}

// Remote selects the active backend and its connection settings. Exactly one
// backend is active at a time.
type Remote struct {
	// Provider is the remote store adapter to use: "http" or "s3".
	Provider string `env:"PROVIDER" json:"provider"`

	// BaseURL is the API root for the http provider.
	BaseURL string `env:"BASE_URL" json:"base_url"`

	// Folder is the app-private folder (http) or key prefix (s3) holding
	// all synchronized files.
	Folder string `env:"FOLDER" json:"folder"`

	// Bucket and Region configure the s3 provider.
	Bucket string `env:"BUCKET" json:"bucket"`
	Region string `env:"REGION" json:"region"`

	// RequestTimeout is the default timeout for outbound remote requests.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" json:"request_timeout"`
}

// Sync holds the orchestrator's scheduler timings.
type Sync struct {
	// Interval is the periodic background sync cadence.
	Interval time.Duration `env:"INTERVAL" json:"interval"`

	// Debounce is the quiet period after a local change before a
	// change-triggered pass runs.
	Debounce time.Duration `env:"DEBOUNCE" json:"debounce"`
}

// defaults returns the built-in base configuration every other source is
// merged on top of.
func defaults() *Config {
	dataDir := defaultDataDir()

	cfg := &Config{}
	cfg.App.DataDir = dataDir
	cfg.App.DBPath = filepath.Join(dataDir, "clipsync.db")
	cfg.Remote.Provider = "http"
	cfg.Remote.Folder = "clipsync"
	cfg.Remote.RequestTimeout = 15 * time.Second
	cfg.Sync.Interval = 5 * time.Minute
	cfg.Sync.Debounce = 5 * time.Second
	return cfg
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "clipsync-data"
	}
	return filepath.Join(base, "clipsync")
}
