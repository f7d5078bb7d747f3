package models

import "time"

// FileRef identifies a file in the app-private remote folder. ID is the
// backend's opaque handle (a drive file id, an S3 object key); Name is the
// deterministic well-known name the sync layer addresses files by.
type FileRef struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size,omitempty"`
	ModifiedAt time.Time `json:"modifiedAt,omitempty"`
}
