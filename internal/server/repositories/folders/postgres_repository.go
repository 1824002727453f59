package folders

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

func (r *PostgresRepository) Create(ctx context.Context, folder *models.Folder) (*models.Folder, error) {

	query :=
		`INSERT INTO folders (id, account_id, encrypted_name, color, icon)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		folder.ID, folder.AccountID, folder.EncryptedName, folder.Color, folder.Icon).Scan(&folder.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	folder.Active = true
	return folder, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query :=
		`SELECT id, account_id, encrypted_name, color, icon, created_at, is_active FROM folders
		 WHERE id = $1 AND is_active
		 `

	folder := &models.Folder{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&folder.ID, &folder.AccountID,
		&folder.EncryptedName, &folder.Color, &folder.Icon, &folder.CreatedAt, &folder.Active)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return folder, nil
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]*models.Folder, error) {
	query :=
		`SELECT id, account_id, encrypted_name, color, icon, created_at, is_active FROM folders
		 WHERE account_id = $1 AND is_active
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Folder
	for rows.Next() {
		folder := &models.Folder{}
		if err := rows.Scan(&folder.ID, &folder.AccountID, &folder.EncryptedName,
			&folder.Color, &folder.Icon, &folder.CreatedAt, &folder.Active); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, folder *models.Folder) error {
	query :=
		`UPDATE folders SET encrypted_name = $2, color = $3, icon = $4
		 WHERE id = $1 AND is_active
		 `

	res, err := r.db.ExecContext(ctx, query, folder.ID, folder.EncryptedName, folder.Color, folder.Icon)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id string) error {
	query :=
		`UPDATE folders SET is_active = FALSE
		 WHERE id = $1 AND is_active
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
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
