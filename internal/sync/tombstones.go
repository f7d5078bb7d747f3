// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package sync

import (
	"sort"
	"time"

	"github.com/MKhiriev/go-clip-sync/models"
)

// NewTombstone stamps a deletion marker for id at now. ExpiresAt is fixed at
// now + [models.TombstoneTTL]; the TTL exists primarily to cap how much
// deletion history the manifest carries, not to guard against id reuse.
func NewTombstone(id string, now time.Time) models.Tombstone {
	return models.Tombstone{
		ID:        id,
		DeletedAt: now,
		ExpiresAt: now.Add(models.TombstoneTTL),
	}
}

// MergeTombstones unions the two tombstone lists by id, keeping per id the
// entry with the latest DeletedAt, and drops every entry (from either side)
// whose ExpiresAt has already passed relative to now. The result is sorted by
// id so repeated merges of the same inputs produce identical output.
func MergeTombstones(local, remote []models.Tombstone, now time.Time) []models.Tombstone {
	byID := make(map[string]models.Tombstone, len(local)+len(remote))

	keep := func(t models.Tombstone) {
		if !t.ExpiresAt.After(now) {
			// Expired marker from either side — garbage-collect.
			return
		}
		if existing, ok := byID[t.ID]; ok && !t.DeletedAt.After(existing.DeletedAt) {
			return
		}
		byID[t.ID] = t
	}

	for _, t := range local {
		keep(t)
	}
	for _, t := range remote {
		keep(t)
	}

	merged := make([]models.Tombstone, 0, len(byID))
	for _, t := range byID {
		merged = append(merged, t)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })

	return merged
}
