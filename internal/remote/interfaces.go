// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package remote provides the storage-backend abstraction the sync
// orchestrator runs against.
//
// The primary abstraction is [RemoteStore]: uniform file-level operations on
// an app-private remote folder. The package ships two implementations — an
// HTTP/REST drive-style backend ([NewHTTPRemoteStore]) and an S3 backend
// ([NewS3RemoteStore]); exactly one is active at a time, selected by
// configuration. A new cloud backend plugs in here without touching the
// orchestrator.
//
// Error values defined in errors.go are mapped from transport responses so
// that callers can use [errors.Is] transport-agnostically (e.g.
// [ErrUnauthorized] for 401, [ErrFileNotFound] for a missing object).
package remote

import (
	"context"

	"github.com/MKhiriev/go-clip-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// RemoteStore is the capability set any remote backend must expose.
// Implementations obtain their bearer credential from the credential manager
// internally; callers never see tokens.
type RemoteStore interface {
	// UpsertFile creates or updates a file in the app-private folder. When
	// existingID is non-empty the backend updates that file in place;
	// otherwise it creates a new one. Returns the backend's reference for
	// the file.
	UpsertFile(ctx context.Context, name string, content []byte, existingID string) (models.FileRef, error)

	// ReadFile returns the content of the file with the given backend id.
	// Returns [ErrFileNotFound] if no such file exists.
	ReadFile(ctx context.Context, id string) ([]byte, error)

	// FindFile looks a file up by its well-known name. Returns (nil, nil)
	// when no file with that name exists — absence is not an error.
	FindFile(ctx context.Context, name string) (*models.FileRef, error)

	// ListFiles enumerates every file in the app-private folder.
	ListFiles(ctx context.Context) ([]models.FileRef, error)

	// DeleteFile removes the file with the given backend id. Deleting a
	// missing file is not an error.
	DeleteFile(ctx context.Context, id string) error

	// IsAuthenticated reports whether the backend holds a usable session.
	IsAuthenticated() bool

	// UserEmail returns the signed-in account's email, or "" when unknown.
	UserEmail() string
}
