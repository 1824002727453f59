// Package cryptox implements the cipher engine: password-based key
// derivation, authenticated encryption of opaque strings, the ciphertext
// fingerprint used for optimistic concurrency, and share token generation.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"

	"github.com/cryptora-app/server/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize      = 16
	nonceSize     = 12
	keySize       = 32
	kdfIterations = 100_000
	tokenSize     = 32
)

// ErrDecrypt is returned for any authentication or format failure while
// decrypting a blob: wrong password, truncated or tampered data, or a blob
// produced under a different key. The causes are indistinguishable on
// purpose; no partial plaintext is ever returned.
var ErrDecrypt = errors.New("decryption failed")

// DeriveKey stretches a password and salt into a 32-byte AES key using
// PBKDF2-HMAC-SHA256. The iteration count is a fixed CPU cost chosen to
// resist brute force; changing it invalidates every stored blob.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, kdfIterations, keySize, sha256.New)
}

// Encrypt encrypts plaintext under a key derived from password and returns
// a base64-encoded blob laid out as salt(16) ‖ nonce(12) ‖ AES-256-GCM
// ciphertext+tag.
//
// A fresh salt and nonce are drawn for every call, so encrypting the same
// plaintext twice under the same password yields unrelated blobs.
func Encrypt(plaintext, password string) (string, error) {
	salt := common.GenerateRandByteArray(saltSize)
	nonce := common.GenerateRandByteArray(nonceSize)

	key := DeriveKey(password, salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	ciphertext := aesgcm.Seal(nil, nonce, []byte(plaintext), nil)

	combined := make([]byte, 0, saltSize+nonceSize+len(ciphertext))
	combined = append(combined, salt...)
	combined = append(combined, nonce...)
	combined = append(combined, ciphertext...)

	return base64.StdEncoding.EncodeToString(combined), nil
}

// Decrypt reverses Encrypt: it decodes the blob, slices out salt and nonce,
// re-derives the key and authenticates+decrypts. Every failure mode maps to
// ErrDecrypt.
func Decrypt(blob, password string) (string, error) {
	combined, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", ErrDecrypt
	}
	if len(combined) < saltSize+nonceSize {
		return "", ErrDecrypt
	}

	salt := combined[:saltSize]
	nonce := combined[saltSize : saltSize+nonceSize]
	ciphertext := combined[saltSize+nonceSize:]

	key := DeriveKey(password, salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", ErrDecrypt
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", ErrDecrypt
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecrypt
	}

	return string(plaintext), nil
}

// HashContent returns the lowercase hex SHA-256 digest of a ciphertext
// string. It is a change-detection fingerprint, not a security primitive;
// hashing ciphertext rather than plaintext avoids a stable fingerprint of
// secret content.
func HashContent(ciphertext string) string {
	sum := sha256.Sum256([]byte(ciphertext))
	return hex.EncodeToString(sum[:])
}

// NewShareToken returns a random URL-safe token with 256 bits of entropy.
// The token is both the public locator of a share and the password its
// content is re-encrypted under.
func NewShareToken() string {
	return base64.RawURLEncoding.EncodeToString(common.GenerateRandByteArray(tokenSize))
}
