package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (id, alias, encrypted_alias)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, last_accessed_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Alias, account.EncryptedAlias).Scan(&account.CreatedAt, &account.LastAccessedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.Active = true
	return account, nil
}

func (r *PostgresRepository) GetByAlias(ctx context.Context, alias string) (*models.Account, error) {
	query :=
		`SELECT id, alias, encrypted_alias, created_at, last_accessed_at, is_active FROM accounts
		 WHERE alias = $1 AND is_active
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, alias))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT id, alias, encrypted_alias, created_at, last_accessed_at, is_active FROM accounts
		 WHERE id = $1 AND is_active
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) TouchLastAccessed(ctx context.Context, id string) error {
	query :=
		`UPDATE accounts SET last_accessed_at = now()
		 WHERE id = $1 AND is_active
		 `

	res, err := r.db.ExecContext(ctx, query, id)
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

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(&account.ID, &account.Alias, &account.EncryptedAlias,
		&account.CreatedAt, &account.LastAccessedAt, &account.Active)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}
