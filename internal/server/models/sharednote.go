package models

import "time"

// SharedNote is a link-shared copy of a note, re-encrypted under its Token
// so anyone holding the link can read it without the owner's password.
// At most one active share exists per note. ExpiresAt nil means no expiry.
type SharedNote struct {
	ID               string
	NoteID           string
	Token            string
	EncryptedTitle   *string
	EncryptedContent string
	CreatedAt        time.Time
	ExpiresAt        *time.Time
	Views            int64
	Active           bool
}
