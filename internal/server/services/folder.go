package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cryptora-app/server/internal/common"
	"github.com/cryptora-app/server/internal/cryptox"
	"github.com/cryptora-app/server/internal/dbx"
	"github.com/cryptora-app/server/internal/server/config"
	"github.com/cryptora-app/server/internal/server/models"
	"github.com/cryptora-app/server/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	defaultFolderColor = "default"
	defaultFolderIcon  = "folder"

	// shown when a stored folder name cannot be decrypted after the gate
	// has already accepted the password
	unnamedFolder = "Unnamed Folder"
)

// FolderService manages encrypted folders. Folder names are ciphertext;
// color and icon are plaintext display metadata.
type FolderService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	config *config.Config
}

func NewFolderService(db *sql.DB, repos repomanager.RepositoryManager, cfg *config.Config) *FolderService {
	return &FolderService{db: db, repos: repos, config: cfg}
}

// DecryptedFolder pairs a folder record with its decrypted name.
type DecryptedFolder struct {
	*models.Folder
	Name string
}

type CreateFolderInput struct {
	Name  string
	Color string
	Icon  string
}

type UpdateFolderInput struct {
	Name  *string
	Color *string
	Icon  *string
}

// Create encrypts the folder name under the just-verified password and
// persists the folder.
func (s *FolderService) Create(ctx context.Context, account *models.Account, password string, in CreateFolderInput) (*models.Folder, error) {
	if in.Color == "" {
		in.Color = defaultFolderColor
	}
	if in.Icon == "" {
		in.Icon = defaultFolderIcon
	}
	if err := validateFolderFields(s.config, in.Name, in.Color, in.Icon); err != nil {
		return nil, err
	}
	if !passwordUnlocks(account, password) {
		return nil, common.ErrorInvalidPassword
	}

	encryptedName, err := cryptox.Encrypt(in.Name, password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	folder := &models.Folder{
		ID:            uuid.NewString(),
		AccountID:     account.ID,
		EncryptedName: encryptedName,
		Color:         in.Color,
		Icon:          in.Icon,
	}

	return s.repos.Folders(s.db).Create(ctx, folder)
}

// Get returns the folder with its name decrypted. A folder belonging to a
// different account is reported as not found, never as forbidden.
func (s *FolderService) Get(ctx context.Context, account *models.Account, password, folderID string) (*DecryptedFolder, error) {
	// gate before lookup: a wrong password must not reveal whether the
	// folder id exists
	if !passwordUnlocks(account, password) {
		return nil, common.ErrorInvalidPassword
	}
	folder, err := s.ownedFolder(ctx, s.db, account, folderID)
	if err != nil {
		return nil, err
	}

	name, err := cryptox.Decrypt(folder.EncryptedName, password)
	if err != nil {
		if !errors.Is(err, cryptox.ErrDecrypt) {
			return nil, common.ErrorInternal
		}
		name = unnamedFolder
	}

	return &DecryptedFolder{Folder: folder, Name: name}, nil
}

// List returns the account's active folders, ciphertext names included.
// This is an existence listing; decryption still requires the password.
func (s *FolderService) List(ctx context.Context, account *models.Account) ([]*models.Folder, error) {
	return s.repos.Folders(s.db).ListByAccount(ctx, account.ID)
}

// Update re-encrypts the name when a new one is supplied and overwrites the
// display metadata.
func (s *FolderService) Update(ctx context.Context, account *models.Account, password, folderID string, in UpdateFolderInput) (*models.Folder, error) {
	if err := validateFolderUpdate(s.config, in.Name, in.Color, in.Icon); err != nil {
		return nil, err
	}
	if !passwordUnlocks(account, password) {
		return nil, common.ErrorInvalidPassword
	}

	var updated *models.Folder
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		folder, err := s.ownedFolder(ctx, tx, account, folderID)
		if err != nil {
			return err
		}

		if in.Name != nil {
			encryptedName, err := cryptox.Encrypt(*in.Name, password)
			if err != nil {
				return common.ErrorInternal
			}
			folder.EncryptedName = encryptedName
		}
		if in.Color != nil {
			folder.Color = *in.Color
		}
		if in.Icon != nil {
			folder.Icon = *in.Icon
		}

		if err := s.repos.Folders(tx).Update(ctx, folder); err != nil {
			return err
		}
		updated = folder
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete deactivates the folder and detaches its notes in one transaction.
// The notes stay active with their folder reference cleared.
func (s *FolderService) Delete(ctx context.Context, account *models.Account, password, folderID string) error {
	if !passwordUnlocks(account, password) {
		return common.ErrorInvalidPassword
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.ownedFolder(ctx, tx, account, folderID); err != nil {
			return err
		}
		if err := s.repos.Notes(tx).DetachFolder(ctx, folderID); err != nil {
			return err
		}
		return s.repos.Folders(tx).Deactivate(ctx, folderID)
	})
}

func (s *FolderService) ownedFolder(ctx context.Context, db dbx.DBTX, account *models.Account, folderID string) (*models.Folder, error) {
	folder, err := s.repos.Folders(db).GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.AccountID != account.ID {
		return nil, common.ErrorNotFound
	}
	return folder, nil
}
