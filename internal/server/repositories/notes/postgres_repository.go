package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cryptora-app/server/internal/common"
	"github.com/cryptora-app/server/internal/dbx"
	"github.com/cryptora-app/server/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {

	query :=
		`INSERT INTO notes (id, account_id, folder_id, encrypted_title, encrypted_content, content_hash)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		note.ID, note.AccountID, nullString(note.FolderID), nullString(note.EncryptedTitle),
		note.EncryptedContent, note.ContentHash).Scan(&note.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	note.Active = true
	return note, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	query :=
		`SELECT id, account_id, folder_id, encrypted_title, encrypted_content, content_hash,
		        created_at, updated_at, is_active
		 FROM notes
		 WHERE id = $1 AND is_active
		 `

	note, err := scanNote(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return note, nil
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]*models.Note, error) {
	query :=
		`SELECT id, account_id, folder_id, encrypted_title, encrypted_content, content_hash,
		        created_at, updated_at, is_active
		 FROM notes
		 WHERE account_id = $1 AND is_active
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, note *models.Note) error {
	query :=
		`UPDATE notes
		 SET folder_id = $2, encrypted_title = $3, encrypted_content = $4, content_hash = $5,
		     updated_at = now()
		 WHERE id = $1 AND is_active
		 `

	res, err := r.db.ExecContext(ctx, query, note.ID, nullString(note.FolderID),
		nullString(note.EncryptedTitle), note.EncryptedContent, note.ContentHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id string) error {
	query :=
		`UPDATE notes SET is_active = FALSE, updated_at = now()
		 WHERE id = $1 AND is_active
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) DetachFolder(ctx context.Context, folderID string) error {
	query :=
		`UPDATE notes SET folder_id = NULL
		 WHERE folder_id = $1 AND is_active
		 `

	// zero affected rows is fine, the folder may be empty
	if _, err := r.db.ExecContext(ctx, query, folderID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	note := &models.Note{}
	var folderID, title sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(&note.ID, &note.AccountID, &folderID, &title, &note.EncryptedContent,
		&note.ContentHash, &note.CreatedAt, &updatedAt, &note.Active)
	if err != nil {
		return nil, err
	}

	if folderID.Valid {
		note.FolderID = &folderID.String
	}
	if title.Valid {
		note.EncryptedTitle = &title.String
	}
	if updatedAt.Valid {
		note.UpdatedAt = &updatedAt.Time
	}

	return note, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
