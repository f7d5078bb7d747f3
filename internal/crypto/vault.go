// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

// tokenVault is the private implementation of [TokenVault]. It derives one
// AES-256 key per purpose string from a per-install master secret via
// Argon2id and seals documents with AES-GCM, nonce prepended:
// blob = base64(nonce ‖ ciphertext).
type tokenVault struct {
	masterSecret []byte

	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. mobile vs. desktop).
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewTokenVault constructs a [TokenVault] keyed by a master secret stored at
// secretPath. On first use a 32-byte secret is read from the OS CSPRNG and
// written there (0600); subsequent runs reuse it, so blobs sealed by earlier
// runs stay readable. In a full desktop build secretPath is itself wrapped by
// the OS keychain; that wrapping sits outside this package.
//
// Argon2id parameters follow the OWASP (2024) recommendation:
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewTokenVault(secretPath string) (TokenVault, error) {
	secret, err := loadOrCreateMasterSecret(secretPath)
	if err != nil {
		return nil, fmt.Errorf("load master secret: %w", err)
	}

	return &tokenVault{
		masterSecret: secret,
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}, nil
}

func loadOrCreateMasterSecret(path string) ([]byte, error) {
	secret, err := os.ReadFile(path)
	if err == nil {
		if len(secret) != 32 {
			return nil, fmt.Errorf("master secret at %s has wrong length %d", path, len(secret))
		}
		return secret, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	secret = make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, secret, 0o600); err != nil {
		return nil, err
	}
	return secret, nil
}

// deriveKey derives the AES key for a purpose. The purpose string is the
// Argon2id salt input, which is what namespaces the keys: same master
// secret, different purpose, unrelated key.
func (v *tokenVault) deriveKey(purpose string) []byte {
	return argon2.IDKey(
		v.masterSecret,
		[]byte(purpose),
		v.argonTime,
		v.argonMemory,
		v.argonThreads,
		v.argonKeyLen,
	)
}

// EncryptAndPersist implements [TokenVault].
func (v *tokenVault) EncryptAndPersist(path string, value any, purpose string) error {
	// 1. Serialize to JSON
	plaintext, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}

	// 2. Build AES-GCM cipher from the purpose-derived key
	gcm, err := v.newGCM(purpose)
	if err != nil {
		return err
	}

	// 3. Generate a random nonce
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	// 4. Encrypt: nonce || ciphertext
	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	blob := base64.StdEncoding.EncodeToString(append(nonce, ciphertext...))

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create blob dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(blob), 0o600); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}

	return nil
}

// ReadAndDecrypt implements [TokenVault].
func (v *tokenVault) ReadAndDecrypt(path string, purpose string, target any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read blob: %w", err)
	}

	// 1. Decode base64 blob
	blob, err := base64.StdEncoding.DecodeString(string(raw))
	if err != nil {
		return fmt.Errorf("%w: decode base64: %v", ErrDecryptFailed, err)
	}

	// 2. Build AES-GCM cipher from the purpose-derived key
	gcm, err := v.newGCM(purpose)
	if err != nil {
		return err
	}

	// 3. Split nonce and ciphertext
	nonceSize := gcm.NonceSize()
	if len(blob) < nonceSize {
		return fmt.Errorf("%w: ciphertext too short", ErrDecryptFailed)
	}
	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]

	// 4. Decrypt and verify auth tag. A failure here almost always means
	// the master secret changed underneath the persisted blob.
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}

	// 5. Unmarshal JSON into target
	if err := json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("unmarshal value: %w", err)
	}

	return nil
}

// Remove implements [TokenVault].
func (v *tokenVault) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

func (v *tokenVault) newGCM(purpose string) (cipher.AEAD, error) {
	block, err := aes.NewCipher(v.deriveKey(purpose))
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
