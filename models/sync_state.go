package models

import "time"

// SyncStatus is the orchestrator's coarse lifecycle state.
type SyncStatus string

const (
	// StatusDisconnected means no authenticated session exists. Entered on
	// fresh start and after logout.
	StatusDisconnected SyncStatus = "disconnected"
	// StatusIdle means a session exists and no pass is running.
	StatusIdle SyncStatus = "idle"
	// StatusSyncing means one reconciliation pass is in flight.
	StatusSyncing SyncStatus = "syncing"
	// StatusError means the last pass failed; the next trigger retries.
	StatusError SyncStatus = "error"
)

// SyncState is the observable orchestrator state snapshot delivered to
// subscribers on every transition. It is a value type: mutating a received
// snapshot has no effect on the orchestrator.
type SyncState struct {
	Status          SyncStatus `json:"status"`
	Provider        string     `json:"provider,omitempty"`
	LastSyncedAt    *time.Time `json:"lastSyncedAt,omitempty"`
	Error           string     `json:"error,omitempty"`
	IsAuthenticated bool       `json:"isAuthenticated"`
	UserEmail       string     `json:"userEmail,omitempty"`
}
