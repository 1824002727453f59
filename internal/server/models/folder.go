package models

import "time"

// Folder groups notes for one account. The name is ciphertext; color and
// icon are plaintext display metadata, not secrets.
type Folder struct {
	ID            string
	AccountID     string
	EncryptedName string
	Color         string
	Icon          string
	CreatedAt     time.Time
	Active        bool
}
