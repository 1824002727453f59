package shares

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cryptora-app/server/internal/common"
	"github.com/cryptora-app/server/internal/dbx"
	"github.com/cryptora-app/server/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, share *models.SharedNote) (*models.SharedNote, error) {

	query :=
		`INSERT INTO shared_notes (id, note_id, token, encrypted_title, encrypted_content, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		share.ID, share.NoteID, share.Token, nullString(share.EncryptedTitle),
		share.EncryptedContent, nullTime(share.ExpiresAt)).Scan(&share.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	share.Active = true
	return share, nil
}

func (r *PostgresRepository) GetActiveByNote(ctx context.Context, noteID string) (*models.SharedNote, error) {
	query := selectQuery + ` WHERE note_id = $1 AND is_active`
	return r.getOne(ctx, query, noteID)
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*models.SharedNote, error) {
	query := selectQuery + ` WHERE token = $1 AND is_active`
	return r.getOne(ctx, query, token)
}

func (r *PostgresRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	query :=
		`UPDATE shared_notes SET views = views + 1
		 WHERE id = $1 AND is_active
		 RETURNING views
		 `

	var views int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&views)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return views, nil
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id string) error {
	query :=
		`UPDATE shared_notes SET is_active = FALSE
		 WHERE id = $1 AND is_active
		 `
	return r.deactivate(ctx, query, id)
}

func (r *PostgresRepository) DeactivateByNote(ctx context.Context, noteID string) error {
	query :=
		`UPDATE shared_notes SET is_active = FALSE
		 WHERE note_id = $1 AND is_active
		 `
	return r.deactivate(ctx, query, noteID)
}

const selectQuery = `SELECT id, note_id, token, encrypted_title, encrypted_content, created_at, expires_at, views, is_active
	 FROM shared_notes`

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.SharedNote, error) {
	share := &models.SharedNote{}
	var title sql.NullString
	var expiresAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, arg).Scan(&share.ID, &share.NoteID, &share.Token,
		&title, &share.EncryptedContent, &share.CreatedAt, &expiresAt, &share.Views, &share.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if title.Valid {
		share.EncryptedTitle = &title.String
	}
	if expiresAt.Valid {
		share.ExpiresAt = &expiresAt.Time
	}

	return share, nil
}

func (r *PostgresRepository) deactivate(ctx context.Context, query string, arg any) error {
	res, err := r.db.ExecContext(ctx, query, arg)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
