package models

import "time"

// SyncSettingsFileName is where the per-install sync preferences live inside
// the data dir. The name is deliberately distinct from [SettingsFileName]:
// preferences never travel through the manifest.
const SyncSettingsFileName = "sync-settings.json"

// SyncSettings is the small per-install preferences file persisted next to
// the local data: whether sync is enabled and when the last pass succeeded.
type SyncSettings struct {
	Enabled      bool       `json:"enabled"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
}
