// Package models defines the persisted entities of the note service.
// Entities are never hard-deleted: "delete" flips Active to false and
// deactivated rows are excluded from all lookups.
package models

import "time"

// Account is a password-protected owner of folders and notes.
//
// EncryptedAlias is the lowercase alias encrypted under the account
// password. It is the password-verification artifact: a supplied password
// is valid iff it decrypts EncryptedAlias back to Alias. No password hash
// is stored anywhere.
type Account struct {
	ID             string
	Alias          string
	EncryptedAlias string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	Active         bool
}
