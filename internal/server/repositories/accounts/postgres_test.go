package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cryptora-app/server/internal/common"
	"github.com/cryptora-app/server/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+accounts\s*\(id,\s*alias,\s*encrypted_alias\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+created_at,\s*last_accessed_at\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"created_at", "last_accessed_at"}).AddRow(now, now)
	mock.ExpectQuery(q).
		WithArgs("a-1", "alice", "blob").
		WillReturnRows(rows)

	a := &models.Account{ID: "a-1", Alias: "alice", EncryptedAlias: "blob"}
	got, err := repo.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "a-1" || !got.Active || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestCreate_DuplicateAlias(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+accounts`

	mock.ExpectQuery(q).
		WithArgs("a-1", "alice", "blob").
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	_, err := repo.Create(context.Background(), &models.Account{ID: "a-1", Alias: "alice", EncryptedAlias: "blob"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+accounts`

	mock.ExpectQuery(q).
		WithArgs("a-1", "alice", "blob").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Account{ID: "a-1", Alias: "alice", EncryptedAlias: "blob"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByAlias_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*alias,\s*encrypted_alias,\s*created_at,\s*last_accessed_at,\s*is_active\s+FROM\s+accounts\s+WHERE\s+alias\s*=\s*\$1\s+AND\s+is_active\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "alias", "encrypted_alias", "created_at", "last_accessed_at", "is_active"}).
		AddRow("a-1", "alice", "blob", now, now, true)
	mock.ExpectQuery(q).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.GetByAlias(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByAlias error: %v", err)
	}
	if got.ID != "a-1" || got.Alias != "alice" || !got.Active {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestGetByAlias_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*alias,\s*encrypted_alias`

	mock.ExpectQuery(q).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByAlias(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*alias,\s*encrypted_alias,\s*created_at,\s*last_accessed_at,\s*is_active\s+FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1\s+AND\s+is_active\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "alias", "encrypted_alias", "created_at", "last_accessed_at", "is_active"}).
		AddRow("a-1", "alice", "blob", now, now, true)
	mock.ExpectQuery(q).
		WithArgs("a-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Alias != "alice" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestTouchLastAccessed_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+accounts\s+SET\s+last_accessed_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+is_active\s*$`

	mock.ExpectExec(q).
		WithArgs("a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.TouchLastAccessed(context.Background(), "a-1"); err != nil {
		t.Fatalf("TouchLastAccessed error: %v", err)
	}
}

func TestTouchLastAccessed_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+accounts\s+SET\s+last_accessed_at`

	mock.ExpectExec(q).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.TouchLastAccessed(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
