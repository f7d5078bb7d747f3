// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-clip-sync/internal/auth"
	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/internal/remote"
	"github.com/MKhiriev/go-clip-sync/internal/store"
	syncer "github.com/MKhiriev/go-clip-sync/internal/sync"
	"github.com/MKhiriev/go-clip-sync/internal/utils"
	"github.com/MKhiriev/go-clip-sync/models"
)

// remoteManifestOwner keys a synthesized manifest when the remote folder has
// none yet.
const remoteManifestOwner = "remote"

// Deps carries every collaborator the orchestrator is constructed from.
// Nothing is reached through globals.
type Deps struct {
	Credentials auth.CredentialManager
	Remote      remote.RemoteStore
	Items       store.ItemStore
	Manifests   store.ManifestStore
	Settings    store.SettingsStore

	DeviceID string
	Provider string
	DataDir  string

	SyncInterval time.Duration
	Debounce     time.Duration

	Logger *logger.Logger
}

type syncOrchestrator struct {
	creds     auth.CredentialManager
	remote    remote.RemoteStore
	items     store.ItemStore
	manifests store.ManifestStore
	settings  store.SettingsStore

	deviceID string
	provider string
	dataDir  string

	logger *logger.Logger
	hub    *stateHub
	sched  *scheduler

	// now is replaceable in tests
	now func() time.Time

	// syncing guards the single in-flight pass; overlapping triggers are
	// dropped, not queued
	syncing atomic.Bool

	mu    sync.Mutex
	state models.SyncState
}

// NewSyncOrchestrator wires the orchestrator from its collaborators. When a
// persisted session was restored by the credential manager the orchestrator
// starts in idle with periodic scheduling already running; otherwise it
// starts disconnected.
func NewSyncOrchestrator(deps Deps) SyncOrchestrator {
	o := &syncOrchestrator{
		creds:     deps.Credentials,
		remote:    deps.Remote,
		items:     deps.Items,
		manifests: deps.Manifests,
		settings:  deps.Settings,
		deviceID:  deps.DeviceID,
		provider:  deps.Provider,
		dataDir:   deps.DataDir,
		logger:    deps.Logger,
		hub:       newStateHub(),
		now:       time.Now,
	}
	o.sched = newScheduler(deps.SyncInterval, deps.Debounce, o.scheduledSync)

	o.state = models.SyncState{
		Status:   models.StatusDisconnected,
		Provider: deps.Provider,
	}
	if o.creds.IsAuthenticated() {
		o.state.Status = models.StatusIdle
		o.state.IsAuthenticated = true
		o.state.UserEmail = o.creds.UserEmail()
		o.sched.StartPeriodic(context.Background())
	}

	return o
}

func (o *syncOrchestrator) Login(ctx context.Context) error {
	if err := o.creds.Login(ctx); err != nil {
		o.setState(func(s *models.SyncState) {
			s.Error = err.Error()
		})
		return err
	}

	o.setState(func(s *models.SyncState) {
		s.Status = models.StatusIdle
		s.Error = ""
	})
	o.sched.StartPeriodic(context.Background())

	return o.performSync(ctx)
}

func (o *syncOrchestrator) Logout() error {
	o.sched.Stop()

	err := o.creds.Logout()
	o.setState(func(s *models.SyncState) {
		s.Status = models.StatusDisconnected
		s.Error = ""
	})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

func (o *syncOrchestrator) ToggleSync(ctx context.Context, enabled bool) error {
	settings, err := o.settings.Load()
	if err != nil {
		return fmt.Errorf("load sync settings: %w", err)
	}
	settings.Enabled = enabled
	if err = o.settings.Save(settings); err != nil {
		return fmt.Errorf("persist sync settings: %w", err)
	}

	if !enabled {
		o.sched.StopPeriodic()
		return nil
	}
	if !o.creds.IsAuthenticated() {
		return nil
	}

	o.sched.StartPeriodic(context.Background())
	return o.performSync(ctx)
}

func (o *syncOrchestrator) SyncNow(ctx context.Context) error {
	if !o.creds.IsAuthenticated() {
		return auth.ErrNotAuthenticated
	}
	return o.performSync(ctx)
}

func (o *syncOrchestrator) ScheduleSyncOnChange() {
	o.sched.Bump()
}

func (o *syncOrchestrator) State() models.SyncState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *syncOrchestrator) Subscribe() <-chan models.SyncState {
	return o.hub.Subscribe()
}

func (o *syncOrchestrator) Unsubscribe(ch <-chan models.SyncState) {
	o.hub.Unsubscribe(ch)
}

func (o *syncOrchestrator) Close() {
	o.sched.Stop()
	o.hub.Close()
}

// scheduledSync is the timer callback. Errors are recorded in state by
// performSync and logged; they never escape to crash the host process.
func (o *syncOrchestrator) scheduledSync() {
	if !o.creds.IsAuthenticated() {
		return
	}
	settings, err := o.settings.Load()
	if err != nil {
		o.logger.Warn().Err(err).Msg("scheduled sync: cannot load settings")
		return
	}
	if !settings.Enabled {
		return
	}

	if err := o.performSync(context.Background()); err != nil {
		o.logger.Warn().Err(err).Msg("scheduled sync pass failed")
	}
}

// performSync runs one reconciliation pass. At most one pass executes at a
// time; a pass requested while one is already running is a no-op.
func (o *syncOrchestrator) performSync(ctx context.Context) error {
	if !o.syncing.CompareAndSwap(false, true) {
		o.logger.Debug().Msg("sync pass already in flight, trigger dropped")
		return nil
	}
	defer o.syncing.Store(false)

	o.setState(func(s *models.SyncState) {
		s.Status = models.StatusSyncing
	})

	passErr := o.runPass(ctx)

	syncedAt := o.now()
	o.setState(func(s *models.SyncState) {
		// a Logout while the pass was running already moved the state to
		// disconnected; the pass outcome must not resurrect it
		if s.Status == models.StatusDisconnected {
			return
		}
		if passErr != nil {
			s.Status = models.StatusError
			s.Error = passErr.Error()
			return
		}
		s.Status = models.StatusIdle
		s.Error = ""
		s.LastSyncedAt = &syncedAt
	})

	return passErr
}

// runPass executes the reconciliation steps in order. Any error aborts the
// remaining steps; the previously persisted manifest is only replaced after
// every remote operation of the pass has succeeded.
func (o *syncOrchestrator) runPass(ctx context.Context) error {
	now := o.now()

	remoteMan, manifestFileID, err := o.fetchRemoteManifest(ctx)
	if err != nil {
		return err
	}

	prev, err := o.manifests.Load()
	if errors.Is(err, store.ErrManifestNotFound) {
		prev = models.NewSyncManifest(o.deviceID)
	} else if err != nil {
		return fmt.Errorf("load persisted manifest: %w", err)
	}

	local, payloads, err := o.buildLocalManifest(ctx, prev, now)
	if err != nil {
		return err
	}

	diff := syncer.Diff(local, remoteMan)
	o.logger.Debug().
		Int("local_only", len(diff.LocalOnly)).
		Int("remote_only", len(diff.RemoteOnly)).
		Int("conflicts", len(diff.Conflicts)).
		Int("local_deletions", len(diff.LocalDeletions)).
		Int("remote_deletions", len(diff.RemoteDeletions)).
		Msg("manifest diff computed")

	if err = o.downloadRemoteOnly(ctx, diff.RemoteOnly, local, remoteMan); err != nil {
		return err
	}

	// conflicts resolve local-wins: the local copy is re-uploaded
	if err = o.uploadLocal(ctx, diff.LocalOnly, local, payloads); err != nil {
		return err
	}
	if err = o.uploadLocal(ctx, diff.Conflicts, local, payloads); err != nil {
		return err
	}

	for _, id := range diff.RemoteDeletions {
		if err = o.items.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete local item %s: %w", id, err)
		}
		delete(local.Items, id)
	}

	if err = o.deleteRemote(ctx, diff.LocalDeletions, remoteMan); err != nil {
		return err
	}

	if err = o.reconcileDocument(ctx, models.CategoriesFileName, o.categoriesPath(), &local.Categories, remoteMan.Categories); err != nil {
		return err
	}
	if err = o.reconcileDocument(ctx, models.SettingsFileName, o.settingsPath(), &local.Settings, remoteMan.Settings); err != nil {
		return err
	}

	local.Tombstones = syncer.MergeTombstones(local.Tombstones, remoteMan.Tombstones, now)
	local.LastModified = now

	data, err := json.MarshalIndent(local, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if _, err = o.remote.UpsertFile(ctx, models.ManifestFileName, data, manifestFileID); err != nil {
		return fmt.Errorf("upload manifest: %w", err)
	}
	if err = o.manifests.Save(local); err != nil {
		return fmt.Errorf("persist manifest: %w", err)
	}

	o.stampLastSynced(now)

	return nil
}

// fetchRemoteManifest returns the remote manifest and its backend file id.
// An absent or unreadable remote manifest is synthesized as empty, never
// treated as fatal.
func (o *syncOrchestrator) fetchRemoteManifest(ctx context.Context) (*models.SyncManifest, string, error) {
	ref, err := o.remote.FindFile(ctx, models.ManifestFileName)
	if err != nil {
		return nil, "", fmt.Errorf("find remote manifest: %w", err)
	}
	if ref == nil {
		return models.NewSyncManifest(remoteManifestOwner), "", nil
	}

	data, err := o.remote.ReadFile(ctx, ref.ID)
	if err != nil {
		if errors.Is(err, remote.ErrFileNotFound) {
			return models.NewSyncManifest(remoteManifestOwner), "", nil
		}
		return nil, "", fmt.Errorf("read remote manifest: %w", err)
	}

	var manifest models.SyncManifest
	if err = json.Unmarshal(data, &manifest); err != nil {
		o.logger.Warn().Err(err).Msg("remote manifest unreadable, treating as absent")
		return models.NewSyncManifest(remoteManifestOwner), ref.ID, nil
	}
	if manifest.Items == nil {
		manifest.Items = make(map[string]models.ManifestEntry)
	}

	return &manifest, ref.ID, nil
}

// buildLocalManifest rebuilds the items map from the local store, carrying
// forward previously known remote file ids and tombstoning ids that
// disappeared from the store since the last persisted manifest. It also
// returns the serialized payload of every syncable item for later upload.
func (o *syncOrchestrator) buildLocalManifest(ctx context.Context, prev *models.SyncManifest, now time.Time) (*models.SyncManifest, map[string][]byte, error) {
	items, err := o.items.List(ctx, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("list local items: %w", err)
	}

	local := models.NewSyncManifest(o.deviceID)
	payloads := make(map[string][]byte, len(items))

	for _, item := range items {
		if !item.Syncable() {
			continue
		}
		content, err := json.Marshal(item)
		if err != nil {
			return nil, nil, fmt.Errorf("encode item %s: %w", item.ID, err)
		}
		entry := models.ManifestEntry{
			ID:        item.ID,
			UpdatedAt: item.UpdatedAt,
			Checksum:  utils.Checksum(content),
		}
		if prevEntry, ok := prev.Items[item.ID]; ok {
			entry.RemoteFileID = prevEntry.RemoteFileID
		}
		local.Items[item.ID] = entry
		payloads[item.ID] = content
	}

	tombstoned := make(map[string]struct{}, len(prev.Tombstones))
	for _, ts := range prev.Tombstones {
		tombstoned[ts.ID] = struct{}{}
	}
	local.Tombstones = append(local.Tombstones, prev.Tombstones...)
	for id := range prev.Items {
		if _, live := local.Items[id]; live {
			continue
		}
		if _, dead := tombstoned[id]; dead {
			continue
		}
		local.Tombstones = append(local.Tombstones, syncer.NewTombstone(id, now))
	}

	if local.Categories, err = o.localDocumentEntry(o.categoriesPath(), prev.Categories); err != nil {
		return nil, nil, err
	}
	if local.Settings, err = o.localDocumentEntry(o.settingsPath(), prev.Settings); err != nil {
		return nil, nil, err
	}

	return local, payloads, nil
}

func (o *syncOrchestrator) downloadRemoteOnly(ctx context.Context, ids []string, local, remoteMan *models.SyncManifest) error {
	for _, id := range ids {
		entry := remoteMan.Items[id]

		fileID := entry.RemoteFileID
		if fileID == "" {
			ref, err := o.remote.FindFile(ctx, models.ItemFileName(id))
			if err != nil {
				return fmt.Errorf("resolve remote item %s: %w", id, err)
			}
			if ref == nil {
				o.logger.Warn().Str("item_id", id).Msg("remote manifest lists an item with no backing file, skipping")
				continue
			}
			fileID = ref.ID
		}

		content, err := o.remote.ReadFile(ctx, fileID)
		if err != nil {
			return fmt.Errorf("download item %s: %w", id, err)
		}

		var item models.ClipItem
		if err = json.Unmarshal(content, &item); err != nil {
			o.logger.Warn().Err(err).Str("item_id", id).Msg("remote item unreadable, skipping")
			continue
		}

		if _, err = o.items.Get(ctx, id); errors.Is(err, store.ErrItemNotFound) {
			if err = o.items.Put(ctx, item); err != nil {
				return fmt.Errorf("store downloaded item %s: %w", id, err)
			}
		} else if err != nil {
			return fmt.Errorf("check local item %s: %w", id, err)
		}

		entry.RemoteFileID = fileID
		local.Items[id] = entry
	}
	return nil
}

func (o *syncOrchestrator) uploadLocal(ctx context.Context, ids []string, local *models.SyncManifest, payloads map[string][]byte) error {
	for _, id := range ids {
		content, ok := payloads[id]
		if !ok {
			continue
		}
		entry := local.Items[id]

		ref, err := o.remote.UpsertFile(ctx, models.ItemFileName(id), content, entry.RemoteFileID)
		if err != nil {
			return fmt.Errorf("upload item %s: %w", id, err)
		}

		entry.RemoteFileID = ref.ID
		local.Items[id] = entry
	}
	return nil
}

// deleteRemote removes the remote files of locally deleted items. The
// tombstones were already appended while rebuilding the local manifest.
func (o *syncOrchestrator) deleteRemote(ctx context.Context, ids []string, remoteMan *models.SyncManifest) error {
	for _, id := range ids {
		fileID := remoteMan.Items[id].RemoteFileID
		if fileID == "" {
			ref, err := o.remote.FindFile(ctx, models.ItemFileName(id))
			if err != nil {
				return fmt.Errorf("resolve remote item %s: %w", id, err)
			}
			if ref == nil {
				continue
			}
			fileID = ref.ID
		}
		if err := o.remote.DeleteFile(ctx, fileID); err != nil {
			return fmt.Errorf("delete remote item %s: %w", id, err)
		}
	}
	return nil
}

// reconcileDocument applies the single-entry last-writer-wins rule to the
// categories and settings documents. Equal checksums mean no action; an
// exact timestamp tie favors the local copy.
func (o *syncOrchestrator) reconcileDocument(ctx context.Context, name, path string, localEntry *models.ManifestEntry, remoteEntry models.ManifestEntry) error {
	switch {
	case localEntry.Checksum == "" && remoteEntry.Checksum == "":
		return nil
	case localEntry.Checksum == remoteEntry.Checksum:
		if localEntry.RemoteFileID == "" {
			localEntry.RemoteFileID = remoteEntry.RemoteFileID
		}
		return nil
	}

	remoteWins := localEntry.Checksum == "" ||
		(remoteEntry.Checksum != "" && remoteEntry.UpdatedAt.After(localEntry.UpdatedAt))

	if remoteWins {
		fileID := remoteEntry.RemoteFileID
		if fileID == "" {
			ref, err := o.remote.FindFile(ctx, name)
			if err != nil {
				return fmt.Errorf("resolve remote %s: %w", name, err)
			}
			if ref == nil {
				o.logger.Warn().Str("name", name).Msg("remote manifest lists a document with no backing file, skipping")
				return nil
			}
			fileID = ref.ID
		}

		content, err := o.remote.ReadFile(ctx, fileID)
		if err != nil {
			return fmt.Errorf("download %s: %w", name, err)
		}
		if err = writeLocalDocument(path, content); err != nil {
			return err
		}

		*localEntry = remoteEntry
		localEntry.RemoteFileID = fileID
		return nil
	}

	content, _, err := readLocalDocument(path)
	if err != nil {
		return err
	}
	existingID := localEntry.RemoteFileID
	if existingID == "" {
		existingID = remoteEntry.RemoteFileID
	}

	ref, err := o.remote.UpsertFile(ctx, name, content, existingID)
	if err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}
	localEntry.RemoteFileID = ref.ID

	return nil
}

// localDocumentEntry computes the manifest entry of a local well-known
// document. A document whose content did not change since the previous
// manifest keeps its previous timestamp so an untouched file never looks
// freshly edited.
func (o *syncOrchestrator) localDocumentEntry(path string, prev models.ManifestEntry) (models.ManifestEntry, error) {
	content, modTime, err := readLocalDocument(path)
	if err != nil {
		return models.ManifestEntry{}, err
	}
	if content == nil {
		return models.ManifestEntry{}, nil
	}

	entry := models.ManifestEntry{
		UpdatedAt:    modTime,
		Checksum:     utils.Checksum(content),
		RemoteFileID: prev.RemoteFileID,
	}
	if prev.Checksum == entry.Checksum && !prev.UpdatedAt.IsZero() {
		entry.UpdatedAt = prev.UpdatedAt
	}

	return entry, nil
}

func (o *syncOrchestrator) stampLastSynced(now time.Time) {
	settings, err := o.settings.Load()
	if err != nil {
		o.logger.Warn().Err(err).Msg("cannot load settings to stamp last-synced time")
		return
	}
	settings.LastSyncedAt = &now
	if err = o.settings.Save(settings); err != nil {
		o.logger.Warn().Err(err).Msg("cannot persist last-synced time")
	}
}

func (o *syncOrchestrator) setState(mutate func(*models.SyncState)) {
	o.mu.Lock()
	mutate(&o.state)
	o.state.IsAuthenticated = o.creds.IsAuthenticated()
	o.state.UserEmail = o.creds.UserEmail()
	snapshot := o.state
	o.mu.Unlock()

	o.hub.Publish(snapshot)
}

func (o *syncOrchestrator) categoriesPath() string {
	return filepath.Join(o.dataDir, models.CategoriesFileName)
}

func (o *syncOrchestrator) settingsPath() string {
	return filepath.Join(o.dataDir, models.SettingsFileName)
}

// readLocalDocument returns (nil, zero, nil) when the file does not exist.
func readLocalDocument(path string) ([]byte, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read %s: %w", path, err)
	}

	return content, info.ModTime(), nil
}

func writeLocalDocument(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
