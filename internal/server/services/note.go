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

// NoteService routes note plaintext through the cipher engine on every
// write and back on every read. The content hash of the stored ciphertext
// is the only concurrency control: optimistic, check-then-act.
type NoteService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	config *config.Config
}

func NewNoteService(db *sql.DB, repos repomanager.RepositoryManager, cfg *config.Config) *NoteService {
	return &NoteService{db: db, repos: repos, config: cfg}
}

// DecryptedNote pairs a note record with its decrypted fields. Title is nil
// when the note has none or when its ciphertext cannot be decrypted.
type DecryptedNote struct {
	*models.Note
	Title   *string
	Content string
}

type CreateNoteInput struct {
	Title    *string
	Content  string
	FolderID *string
}

// UpdateNoteInput carries a full replacement of the note content, an
// optional new title, a tri-state folder reference, and an optional
// optimistic-concurrency precondition.
type UpdateNoteInput struct {
	Title        *string
	Content      string
	Folder       FolderRef
	PreviousHash *string
}

// Create encrypts title and content independently under the just-verified
// password and fingerprints the fresh content ciphertext.
func (s *NoteService) Create(ctx context.Context, account *models.Account, password string, in CreateNoteInput) (*models.Note, error) {
	if err := validateNoteFields(s.config, in.Title, in.Content); err != nil {
		return nil, err
	}
	if !passwordUnlocks(account, password) {
		return nil, common.ErrorInvalidPassword
	}

	if in.FolderID != nil {
		if err := s.checkFolderOwned(ctx, s.db, account, *in.FolderID); err != nil {
			return nil, err
		}
	}

	encryptedTitle, err := encryptOptional(in.Title, password)
	if err != nil {
		return nil, common.ErrorInternal
	}
	encryptedContent, err := cryptox.Encrypt(in.Content, password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	note := &models.Note{
		ID:               uuid.NewString(),
		AccountID:        account.ID,
		FolderID:         in.FolderID,
		EncryptedTitle:   encryptedTitle,
		EncryptedContent: encryptedContent,
		ContentHash:      cryptox.HashContent(encryptedContent),
	}

	return s.repos.Notes(s.db).Create(ctx, note)
}

// Get returns the note with decrypted fields. The mandatory content failing
// to decrypt after the gate accepted the password means corrupted data and
// surfaces as an authentication failure; a failing optional title quietly
// becomes nil.
func (s *NoteService) Get(ctx context.Context, account *models.Account, password, noteID string) (*DecryptedNote, error) {
	// gate before lookup: a wrong password must not reveal whether the
	// note id exists
	if !passwordUnlocks(account, password) {
		return nil, common.ErrorInvalidPassword
	}
	note, err := s.ownedNote(ctx, s.db, account, noteID)
	if err != nil {
		return nil, err
	}

	content, err := cryptox.Decrypt(note.EncryptedContent, password)
	if err != nil {
		if errors.Is(err, cryptox.ErrDecrypt) {
			return nil, common.ErrorInvalidPassword
		}
		return nil, common.ErrorInternal
	}

	return &DecryptedNote{
		Note:    note,
		Title:   decryptOptional(note.EncryptedTitle, password),
		Content: content,
	}, nil
}

// List returns the account's active notes, ciphertext only. Decryption of
// individual notes still requires the password.
func (s *NoteService) List(ctx context.Context, account *models.Account) ([]*models.Note, error) {
	return s.repos.Notes(s.db).ListByAccount(ctx, account.ID)
}

// Update replaces the note content (and optionally title and folder
// reference) inside a single transaction. When PreviousHash is supplied and
// does not match the note's current content hash, the update is refused
// with ErrContentConflict before any mutation.
func (s *NoteService) Update(ctx context.Context, account *models.Account, password, noteID string, in UpdateNoteInput) (*models.Note, error) {
	if err := validateNoteFields(s.config, in.Title, in.Content); err != nil {
		return nil, err
	}
	if !passwordUnlocks(account, password) {
		return nil, common.ErrorInvalidPassword
	}

	var updated *models.Note
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		note, err := s.ownedNote(ctx, tx, account, noteID)
		if err != nil {
			return err
		}

		if in.PreviousHash != nil && *in.PreviousHash != note.ContentHash {
			return common.ErrContentConflict
		}

		if in.Title != nil {
			encryptedTitle, err := cryptox.Encrypt(*in.Title, password)
			if err != nil {
				return common.ErrorInternal
			}
			note.EncryptedTitle = &encryptedTitle
		}

		encryptedContent, err := cryptox.Encrypt(in.Content, password)
		if err != nil {
			return common.ErrorInternal
		}
		note.EncryptedContent = encryptedContent
		note.ContentHash = cryptox.HashContent(encryptedContent)

		if in.Folder.Changed() {
			target := in.Folder.Target()
			if target != nil {
				if err := s.checkFolderOwned(ctx, tx, account, *target); err != nil {
					return err
				}
			}
			note.FolderID = target
		}

		if err := s.repos.Notes(tx).Update(ctx, note); err != nil {
			return err
		}
		updated = note
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete deactivates the note and its active share, if any.
func (s *NoteService) Delete(ctx context.Context, account *models.Account, password, noteID string) error {
	if !passwordUnlocks(account, password) {
		return common.ErrorInvalidPassword
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.ownedNote(ctx, tx, account, noteID); err != nil {
			return err
		}
		if err := s.repos.Shares(tx).DeactivateByNote(ctx, noteID); err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return s.repos.Notes(tx).Deactivate(ctx, noteID)
	})
}

func (s *NoteService) ownedNote(ctx context.Context, db dbx.DBTX, account *models.Account, noteID string) (*models.Note, error) {
	note, err := s.repos.Notes(db).GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.AccountID != account.ID {
		return nil, common.ErrorNotFound
	}
	return note, nil
}

func (s *NoteService) checkFolderOwned(ctx context.Context, db dbx.DBTX, account *models.Account, folderID string) error {
	folder, err := s.repos.Folders(db).GetByID(ctx, folderID)
	if err != nil {
		return err
	}
	if folder.AccountID != account.ID {
		return common.ErrorNotFound
	}
	return nil
}

func encryptOptional(plaintext *string, password string) (*string, error) {
	if plaintext == nil {
		return nil, nil
	}
	blob, err := cryptox.Encrypt(*plaintext, password)
	if err != nil {
		return nil, err
	}
	return &blob, nil
}

// decryptOptional decrypts an optional field. A field that fails to
// decrypt becomes nil rather than failing the whole read.
func decryptOptional(blob *string, password string) *string {
	if blob == nil {
		return nil
	}
	plaintext, err := cryptox.Decrypt(*blob, password)
	if err != nil {
		return nil
	}
	return &plaintext
}
