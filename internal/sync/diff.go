// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package sync holds the pure reconciliation core: manifest diffing and
// tombstone bookkeeping. Nothing in this package touches the clock, the
// network, or storage — all state arrives through arguments, which is what
// keeps the decision logic fully unit-testable.
package sync

import "github.com/MKhiriev/go-clip-sync/models"

// Diff computes the minimal set of actions needed to reconcile a local and a
// remote manifest snapshot. Every divergent item id lands in exactly one
// bucket of the returned [models.DiffResult]; ids absent from all buckets are
// already in sync.
//
// Classification runs in two passes:
//
//   - Pass 1 (over local.Items): handles items the local side knows about,
//     whether or not the remote also has them.
//   - Pass 2 (over remote.Items): catches items that exist only remotely and
//     were therefore invisible in pass 1.
//
// Tombstones beat everything: a remote tombstone for a locally-live id sends
// it to RemoteDeletions (apply the deletion here), a local tombstone for a
// remotely-live id sends it to LocalDeletions (propagate the deletion out).
func Diff(local, remote *models.SyncManifest) models.DiffResult {
	var result models.DiffResult

	localTombs := tombstoneIndex(local.Tombstones)
	remoteTombs := tombstoneIndex(remote.Tombstones)

	// ── Pass 1: iterate over local items ─────────────────────────────────────
	for id, localEntry := range local.Items {
		if _, deletedRemotely := remoteTombs[id]; deletedRemotely {
			// The remote side asked for this id to be deleted → apply locally.
			result.RemoteDeletions = append(result.RemoteDeletions, id)
			continue
		}

		remoteEntry, existsRemotely := remote.Items[id]
		if !existsRemotely {
			// Live local record the remote has never seen → upload.
			result.LocalOnly = append(result.LocalOnly, id)
			continue
		}

		if localEntry.Checksum == remoteEntry.Checksum {
			// Identical content on both sides → already in sync, no action.
			continue
		}

		// Both sides hold the id with diverged content: last writer wins,
		// an exact timestamp tie with different content is a conflict.
		switch {
		case localEntry.UpdatedAt.After(remoteEntry.UpdatedAt):
			result.LocalOnly = append(result.LocalOnly, id)
		case remoteEntry.UpdatedAt.After(localEntry.UpdatedAt):
			result.RemoteOnly = append(result.RemoteOnly, id)
		default:
			result.Conflicts = append(result.Conflicts, id)
		}
	}

	// ── Pass 2: find remote-only items (absent from local) ───────────────────
	for id := range remote.Items {
		if _, handled := local.Items[id]; handled {
			// Already classified in pass 1.
			continue
		}

		if _, deletedLocally := localTombs[id]; deletedLocally {
			// This side deleted the id → propagate the deletion outward.
			result.LocalDeletions = append(result.LocalDeletions, id)
			continue
		}

		// Live remote record the local side has never seen → download.
		result.RemoteOnly = append(result.RemoteOnly, id)
	}

	return result
}

// tombstoneIndex builds an O(1) membership set keyed by tombstone id.
func tombstoneIndex(tombstones []models.Tombstone) map[string]struct{} {
	idx := make(map[string]struct{}, len(tombstones))
	for _, t := range tombstones {
		idx[t.ID] = struct{}{}
	}
	return idx
}
