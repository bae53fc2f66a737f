// Package cryptox holds the primitives behind the local secret store:
// argon2id key derivation, AES-GCM sealing of small values, and the
// per-device key file the derivation starts from.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/patrimoine/internal/common"
	"github.com/dmitrijs2005/patrimoine/internal/filex"
	"golang.org/x/crypto/argon2"
)

// KeySize is the AES-256 key length produced by DeriveKey and stored in
// device key files.
const KeySize = 32

var ErrBadKeyFile = errors.New("malformed device key file")

// DeriveKey stretches secret with salt into an AES-256 key (argon2id,
// 1 pass, 64 MiB, 4 lanes).
func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

// Seal encrypts plaintext with AES-GCM under key. A fresh random nonce is
// generated for every call and returned next to the ciphertext.
func Seal(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = common.GenerateRandByteArray(aesgcm.NonceSize())
	return aesgcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Open reverses Seal. It fails if key, nonce or ciphertext do not match.
func Open(ciphertext, nonce, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return nil, fmt.Errorf("nonce size %d, want %d", len(nonce), aesgcm.NonceSize())
	}
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// LoadOrCreateKeyFile reads the device key at path, creating it with KeySize
// random bytes (mode 0600) when it does not exist yet.
func LoadOrCreateKeyFile(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(key) != KeySize {
			return nil, ErrBadKeyFile
		}
		return key, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read key file: %w", err)
	}

	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	key = common.GenerateRandByteArray(KeySize)
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("write key file: %w", err)
	}
	return key, nil
}
