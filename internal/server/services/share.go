package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cryptora-app/server/internal/common"
	"github.com/cryptora-app/server/internal/cryptox"
	"github.com/cryptora-app/server/internal/dbx"
	"github.com/cryptora-app/server/internal/server/config"
	"github.com/cryptora-app/server/internal/server/models"
	"github.com/cryptora-app/server/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ShareService implements link-based sharing. A share's token is both its
// public locator and the password its content is re-encrypted under, so the
// link grants access independent of the owner's password.
type ShareService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	config *config.Config
}

func NewShareService(db *sql.DB, repos repomanager.RepositoryManager, cfg *config.Config) *ShareService {
	return &ShareService{db: db, repos: repos, config: cfg}
}

// SharedNoteView is what a link holder sees.
type SharedNoteView struct {
	Title     *string
	Content   string
	CreatedAt time.Time
	Views     int64
}

// Create shares a note. Idempotent per note: an existing active share is
// returned unchanged. Otherwise the note is decrypted under the owner's
// password, re-encrypted under a fresh token, and stored with an optional
// absolute expiry of now + ttlHours.
func (s *ShareService) Create(ctx context.Context, account *models.Account, password, noteID string, ttlHours *int) (*models.SharedNote, error) {
	if ttlHours != nil && *ttlHours <= 0 {
		return nil, common.ErrorValidation
	}
	if !passwordUnlocks(account, password) {
		return nil, common.ErrorInvalidPassword
	}

	note, err := s.repos.Notes(s.db).GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.AccountID != account.ID {
		return nil, common.ErrorNotFound
	}

	if existing, err := s.repos.Shares(s.db).GetActiveByNote(ctx, noteID); err == nil {
		return existing, nil
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	content, err := cryptox.Decrypt(note.EncryptedContent, password)
	if err != nil {
		if errors.Is(err, cryptox.ErrDecrypt) {
			return nil, common.ErrorInvalidPassword
		}
		return nil, common.ErrorInternal
	}
	title := decryptOptional(note.EncryptedTitle, password)

	token := cryptox.NewShareToken()

	encryptedContent, err := cryptox.Encrypt(content, token)
	if err != nil {
		return nil, common.ErrorInternal
	}
	encryptedTitle, err := encryptOptional(title, token)
	if err != nil {
		return nil, common.ErrorInternal
	}

	share := &models.SharedNote{
		ID:               uuid.NewString(),
		NoteID:           noteID,
		Token:            token,
		EncryptedTitle:   encryptedTitle,
		EncryptedContent: encryptedContent,
	}
	if ttlHours != nil {
		expires := time.Now().Add(time.Duration(*ttlHours) * time.Hour)
		share.ExpiresAt = &expires
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if existing, err := s.repos.Shares(tx).GetActiveByNote(ctx, noteID); err == nil {
			share = existing
			return nil
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		_, err := s.repos.Shares(tx).Create(ctx, share)
		return err
	})
	if err != nil {
		// lost a concurrent create: the partial unique index on active
		// shares rejected the insert, so return the winner's share
		if errors.Is(err, common.ErrorAlreadyExists) {
			return s.repos.Shares(s.db).GetActiveByNote(ctx, noteID)
		}
		return nil, err
	}

	return share, nil
}

// GetByToken returns the active share for a token. An expired share is
// lazily deactivated on first access and reported as not found.
func (s *ShareService) GetByToken(ctx context.Context, token string) (*models.SharedNote, error) {
	share, err := s.repos.Shares(s.db).GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if share.ExpiresAt != nil && share.ExpiresAt.Before(time.Now()) {
		if err := s.repos.Shares(s.db).Deactivate(ctx, share.ID); err != nil && !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorNotFound
	}

	return share, nil
}

// View decrypts a share using its token as the password and increments the
// view counter. Every successful view counts, repeated viewers included.
func (s *ShareService) View(ctx context.Context, token string) (*SharedNoteView, error) {
	share, err := s.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	content, err := cryptox.Decrypt(share.EncryptedContent, token)
	if err != nil {
		if errors.Is(err, cryptox.ErrDecrypt) {
			return nil, common.ErrorInvalidPassword
		}
		return nil, common.ErrorInternal
	}
	title := decryptOptional(share.EncryptedTitle, token)

	views, err := s.repos.Shares(s.db).IncrementViews(ctx, share.ID)
	if err != nil {
		return nil, err
	}

	return &SharedNoteView{
		Title:     title,
		Content:   content,
		CreatedAt: share.CreatedAt,
		Views:     views,
	}, nil
}

// Delete deactivates the note's active share. Idempotent: it reports
// whether there was anything to delete.
func (s *ShareService) Delete(ctx context.Context, account *models.Account, password, noteID string) (bool, error) {
	if !passwordUnlocks(account, password) {
		return false, common.ErrorInvalidPassword
	}

	note, err := s.repos.Notes(s.db).GetByID(ctx, noteID)
	if err != nil {
		return false, err
	}
	if note.AccountID != account.ID {
		return false, common.ErrorNotFound
	}

	err = s.repos.Shares(s.db).DeactivateByNote(ctx, noteID)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
