package repomanager

import (
	"context"
	"database/sql"

	"github.com/cryptora-app/server/internal/dbx"
	"github.com/cryptora-app/server/internal/server/repositories/accounts"
	"github.com/cryptora-app/server/internal/server/repositories/folders"
	"github.com/cryptora-app/server/internal/server/repositories/notes"
	"github.com/cryptora-app/server/internal/server/repositories/shares"
)

// RepositoryManager binds the per-entity repositories to a database handle.
// Passing a dbx.DBTX lets services use the same repository inside and
// outside transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Folders(db dbx.DBTX) folders.Repository
	Notes(db dbx.DBTX) notes.Repository
	Shares(db dbx.DBTX) shares.Repository
}
