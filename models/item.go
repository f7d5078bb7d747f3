package models

import "time"

// Clip item kinds. Image items exist locally but are excluded from the sync
// manifest; only text-like records travel to the remote store.
const (
	ItemKindText  = "text"
	ItemKindImage = "image"
)

// ClipItem is one clipboard record held by the local item store and, for
// non-image kinds, mirrored to the remote store as item-<id>.json.
type ClipItem struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	Pinned    bool      `json:"pinned,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Syncable reports whether the item participates in cloud sync.
func (i ClipItem) Syncable() bool {
	return i.Kind != ItemKindImage
}
