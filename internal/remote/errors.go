package remote

import "errors"

var (
	// ErrUnauthorized indicates the backend rejected the bearer credential.
	ErrUnauthorized = errors.New("remote store unauthorized")
	// ErrFileNotFound indicates the addressed file does not exist remotely.
	ErrFileNotFound = errors.New("remote file not found")
)
