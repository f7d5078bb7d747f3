// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Well-known remote file names. Item files are derived from the item id via
// [ItemFileName]; everything else lives under a fixed name inside the
// app-private remote folder.
const (
	ManifestFileName   = "manifest.json"
	CategoriesFileName = "categories.json"
	SettingsFileName   = "settings.json"
)

// TombstoneTTL is how long a deletion marker stays in the manifest before it
// is garbage-collected during a merge.
const TombstoneTTL = 30 * 24 * time.Hour

// ItemFileName returns the deterministic remote file name for an item id.
func ItemFileName(id string) string {
	return "item-" + id + ".json"
}

// SyncManifest is the reconciled view of what sync state exists on one side.
// Two manifests exist per cycle: a local one rebuilt from the item store and
// a remote one fetched from the object store. They are only ever compared,
// never shared.
type SyncManifest struct {
	Version      int                      `json:"version"`
	DeviceID     string                   `json:"deviceId"`
	LastModified time.Time                `json:"lastModified"`
	Items        map[string]ManifestEntry `json:"items"`
	Categories   ManifestEntry            `json:"categories"`
	Settings     ManifestEntry            `json:"settings"`
	Tombstones   []Tombstone              `json:"tombstones"`
}

// NewSyncManifest returns an empty manifest owned by deviceID with an
// initialized items map.
func NewSyncManifest(deviceID string) *SyncManifest {
	return &SyncManifest{
		Version:  1,
		DeviceID: deviceID,
		Items:    make(map[string]ManifestEntry),
	}
}

// ManifestEntry describes one synchronized record. Checksum is a content hash
// of the serialized record; RemoteFileID is populated only once the
// corresponding remote file exists. The categories and settings documents are
// each a single entry with an empty ID since each is one well-known file.
type ManifestEntry struct {
	ID           string    `json:"id,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Checksum     string    `json:"checksum"`
	RemoteFileID string    `json:"remoteFileId,omitempty"`
}

// Tombstone records that an id was deleted, distinguishing "deleted" from
// "never existed" during reconciliation. ExpiresAt is always
// DeletedAt + [TombstoneTTL]; expired tombstones are dropped on merge.
type Tombstone struct {
	ID        string    `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DiffResult classifies every divergent item id into exactly one action
// bucket. Ids absent from all five lists are already in sync.
type DiffResult struct {
	// LocalOnly holds ids whose local copy must be uploaded (new locally, or
	// local copy is strictly newer).
	LocalOnly []string
	// RemoteOnly holds ids whose remote copy must be downloaded (new
	// remotely, or remote copy is strictly newer).
	RemoteOnly []string
	// Conflicts holds ids where both sides changed and timestamps tie.
	Conflicts []string
	// LocalDeletions holds ids deleted locally that must be deleted remotely.
	LocalDeletions []string
	// RemoteDeletions holds ids deleted remotely that must be deleted locally.
	RemoteDeletions []string
}

// Empty reports whether the diff produced no actions at all.
func (d DiffResult) Empty() bool {
	return len(d.LocalOnly) == 0 &&
		len(d.RemoteOnly) == 0 &&
		len(d.Conflicts) == 0 &&
		len(d.LocalDeletions) == 0 &&
		len(d.RemoteDeletions) == 0
}
