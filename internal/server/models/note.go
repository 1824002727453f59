package models

import "time"

// Note holds one encrypted record. ContentHash is the SHA-256 of the
// ciphertext (never the plaintext) and serves as the optimistic-concurrency
// fingerprint for updates.
type Note struct {
	ID               string
	AccountID        string
	FolderID         *string
	EncryptedTitle   *string
	EncryptedContent string
	ContentHash      string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	Active           bool
}
