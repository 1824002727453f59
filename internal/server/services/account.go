// Package services contains the business logic of the note service: the
// password gate, cipher routing on every read and write, optimistic
// concurrency on note updates, and link-based sharing.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cryptora-app/server/internal/common"
	"github.com/cryptora-app/server/internal/cryptox"
	"github.com/cryptora-app/server/internal/server/config"
	"github.com/cryptora-app/server/internal/server/models"
	"github.com/cryptora-app/server/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// AccountService handles registration and password verification. "Login" is
// nothing but a successful VerifyPassword: no session or token is minted.
type AccountService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	config *config.Config
}

func NewAccountService(db *sql.DB, repos repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{db: db, repos: repos, config: cfg}
}

// Register creates a new account. The alias is lowercased before any
// comparison or encryption, and its ciphertext under the account password
// becomes the stored password-verification artifact.
func (s *AccountService) Register(ctx context.Context, alias, password string) (*models.Account, error) {
	if err := validateAlias(s.config, alias); err != nil {
		return nil, err
	}
	if err := validatePassword(s.config, password); err != nil {
		return nil, err
	}

	alias = strings.ToLower(alias)

	repo := s.repos.Accounts(s.db)

	if _, err := repo.GetByAlias(ctx, alias); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	encryptedAlias, err := cryptox.Encrypt(alias, password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account := &models.Account{
		ID:             uuid.NewString(),
		Alias:          alias,
		EncryptedAlias: encryptedAlias,
	}

	// the partial unique index on active aliases backstops the check above
	return repo.Create(ctx, account)
}

// FindByAlias returns the active account with the given alias, or
// common.ErrorNotFound.
func (s *AccountService) FindByAlias(ctx context.Context, alias string) (*models.Account, error) {
	return s.repos.Accounts(s.db).GetByAlias(ctx, strings.ToLower(alias))
}

// VerifyPassword reports whether password unlocks the account. It never
// returns an error: wrong password and corrupted ciphertext are both false.
func (s *AccountService) VerifyPassword(account *models.Account, password string) bool {
	return passwordUnlocks(account, password)
}

// TouchLastAccessed refreshes the account's last-access timestamp.
func (s *AccountService) TouchLastAccessed(ctx context.Context, id string) error {
	return s.repos.Accounts(s.db).TouchLastAccessed(ctx, id)
}
