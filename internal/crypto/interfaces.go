package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/token_vault_mock.go -package=mock

// TokenVault protects small JSON documents (OAuth token sets) at rest. It
// knows nothing about the network or the sync protocol; its single job is
// wrapping values with an AEAD cipher keyed from a per-install master secret.
//
// The purpose string namespaces key derivation: two documents sealed with
// different purposes cannot decrypt each other even under the same master
// secret.
type TokenVault interface {
	// EncryptAndPersist serializes value to JSON, encrypts it under the key
	// derived for purpose, and writes the blob to path (0600).
	EncryptAndPersist(path string, value any, purpose string) error

	// ReadAndDecrypt reads the blob at path, decrypts it under the key
	// derived for purpose, and unmarshals the plaintext JSON into target.
	// A wrong key, corrupt blob, or failed auth tag surfaces as
	// [ErrDecryptFailed] — never a silent plaintext fallback. A missing
	// file surfaces as [ErrNotFound].
	ReadAndDecrypt(path string, purpose string, target any) error

	// Remove deletes the persisted blob at path. Removing a missing file is
	// not an error.
	Remove(path string) error
}
