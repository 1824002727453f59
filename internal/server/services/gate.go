package services

import (
	"github.com/cryptora-app/server/internal/cryptox"
	"github.com/cryptora-app/server/internal/server/models"
)

// passwordUnlocks reports whether password decrypts the account's stored
// alias ciphertext back to the known alias. This is the single access gate
// for the whole system: there is no password hash and no session. Any
// decryption failure means the password does not unlock the account; it is
// never surfaced as an error.
func passwordUnlocks(account *models.Account, password string) bool {
	decrypted, err := cryptox.Decrypt(account.EncryptedAlias, password)
	return err == nil && decrypted == account.Alias
}
