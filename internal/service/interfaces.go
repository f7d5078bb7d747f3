package service

import (
	"context"

	"github.com/MKhiriev/go-clip-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/orchestrator_mock.go -package=mock

// SyncOrchestrator is the application-facing surface of the sync subsystem:
// a small state machine (disconnected, idle, syncing, error) plus the
// triggers that drive reconciliation passes. One instance exists per running
// process.
type SyncOrchestrator interface {
	// Login runs the interactive OAuth flow, moves the orchestrator to idle,
	// starts periodic scheduling and immediately runs one sync pass. The
	// pass's error, if any, is both recorded in state and returned.
	Login(ctx context.Context) error

	// Logout stops all timers, discards credentials and returns to
	// disconnected. Does not abort a pass already in flight.
	Logout() error

	// ToggleSync persists the sync-enabled flag. Turning it on while
	// authenticated starts periodic scheduling and runs a pass immediately;
	// turning it off stops periodic scheduling without logging out.
	ToggleSync(ctx context.Context, enabled bool) error

	// SyncNow runs one pass immediately, bypassing both timers. Fails with
	// [auth.ErrNotAuthenticated] when not logged in.
	SyncNow(ctx context.Context) error

	// ScheduleSyncOnChange (re)starts the debounce timer. The local item
	// store calls it on every mutation; rapid successive calls collapse
	// into a single pass after the quiet period.
	ScheduleSyncOnChange()

	// State returns the current state snapshot.
	State() models.SyncState

	// Subscribe returns a channel that receives a snapshot on every state
	// transition. Unsubscribe with [SyncOrchestrator.Unsubscribe].
	Subscribe() <-chan models.SyncState

	// Unsubscribe closes the subscription channel and stops delivery.
	Unsubscribe(ch <-chan models.SyncState)

	// Close stops all timers. The orchestrator must not be used afterwards.
	Close()
}
