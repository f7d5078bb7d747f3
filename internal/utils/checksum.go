// Package utils provides general-purpose helper utilities used across
// different parts of the application: content checksums, UUID generation and
// small HTTP response helpers.
package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Checksum computes a SHA-256 digest over the given byte slice and returns it
// hex-encoded. It is the content hash recorded in manifest entries: two
// records with equal checksums are treated as identical without transferring
// their content.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
