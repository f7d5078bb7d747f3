package crypto

import "errors"

var (
	// ErrDecryptFailed indicates the blob could not be decrypted: wrong or
	// rotated master secret, a truncated blob, or an auth tag mismatch.
	// Callers must treat this as "credentials unavailable", not as a
	// recoverable parse problem.
	ErrDecryptFailed = errors.New("decrypt failed")

	// ErrNotFound indicates no blob exists at the given path.
	ErrNotFound = errors.New("encrypted blob not found")
)
