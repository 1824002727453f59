package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cryptora-app/server/internal/common"
	"github.com/cryptora-app/server/internal/cryptox"
	"github.com/cryptora-app/server/internal/dbx"
	"github.com/cryptora-app/server/internal/server/config"
	"github.com/cryptora-app/server/internal/server/models"
	accountsrepo "github.com/cryptora-app/server/internal/server/repositories/accounts"
	foldersrepo "github.com/cryptora-app/server/internal/server/repositories/folders"
	notesrepo "github.com/cryptora-app/server/internal/server/repositories/notes"
	sharesrepo "github.com/cryptora-app/server/internal/server/repositories/shares"
	"github.com/google/uuid"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// testAccount builds an account whose encrypted alias verifies under pw.
func testAccount(t *testing.T, alias, pw string) *models.Account {
	t.Helper()
	blob, err := cryptox.Encrypt(alias, pw)
	if err != nil {
		t.Fatalf("encrypt alias: %v", err)
	}
	return &models.Account{ID: uuid.NewString(), Alias: alias, EncryptedAlias: blob, Active: true}
}

// --- in-memory fakes ---
//
// The fakes are stateful so tests can assert on what actually got stored,
// and carry injectable errors for failure paths. They ignore the dbx.DBTX
// handle: transactional behavior itself is covered by the dbx tests.

type fakeAccountsRepo struct {
	accounts map[string]*models.Account

	createErr error
	getErr    error
	touched   []string
}

func newFakeAccountsRepo() *fakeAccountsRepo {
	return &fakeAccountsRepo{accounts: map[string]*models.Account{}}
}

func (f *fakeAccountsRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a.Active = true
	f.accounts[a.ID] = a
	return a, nil
}

func (f *fakeAccountsRepo) GetByAlias(ctx context.Context, alias string) (*models.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, a := range f.accounts {
		if a.Alias == alias && a.Active {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if a, ok := f.accounts[id]; ok && a.Active {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) TouchLastAccessed(ctx context.Context, id string) error {
	if _, ok := f.accounts[id]; !ok {
		return common.ErrorNotFound
	}
	f.touched = append(f.touched, id)
	return nil
}

type fakeFoldersRepo struct {
	folders map[string]*models.Folder

	updateErr error
}

func newFakeFoldersRepo() *fakeFoldersRepo {
	return &fakeFoldersRepo{folders: map[string]*models.Folder{}}
}

func (f *fakeFoldersRepo) Create(ctx context.Context, folder *models.Folder) (*models.Folder, error) {
	folder.Active = true
	f.folders[folder.ID] = folder
	return folder, nil
}

func (f *fakeFoldersRepo) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	if folder, ok := f.folders[id]; ok && folder.Active {
		return folder, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFoldersRepo) ListByAccount(ctx context.Context, accountID string) ([]*models.Folder, error) {
	var result []*models.Folder
	for _, folder := range f.folders {
		if folder.AccountID == accountID && folder.Active {
			result = append(result, folder)
		}
	}
	return result, nil
}

func (f *fakeFoldersRepo) Update(ctx context.Context, folder *models.Folder) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.folders[folder.ID]; !ok {
		return common.ErrorNotFound
	}
	f.folders[folder.ID] = folder
	return nil
}

func (f *fakeFoldersRepo) Deactivate(ctx context.Context, id string) error {
	folder, ok := f.folders[id]
	if !ok || !folder.Active {
		return common.ErrorNotFound
	}
	folder.Active = false
	return nil
}

type fakeNotesRepo struct {
	notes map[string]*models.Note

	updateErr error
	detachErr error
}

func newFakeNotesRepo() *fakeNotesRepo {
	return &fakeNotesRepo{notes: map[string]*models.Note{}}
}

func (f *fakeNotesRepo) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	note.Active = true
	f.notes[note.ID] = note
	return note, nil
}

func (f *fakeNotesRepo) GetByID(ctx context.Context, id string) (*models.Note, error) {
	if note, ok := f.notes[id]; ok && note.Active {
		return note, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeNotesRepo) ListByAccount(ctx context.Context, accountID string) ([]*models.Note, error) {
	var result []*models.Note
	for _, note := range f.notes {
		if note.AccountID == accountID && note.Active {
			result = append(result, note)
		}
	}
	return result, nil
}

func (f *fakeNotesRepo) Update(ctx context.Context, note *models.Note) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.notes[note.ID]; !ok {
		return common.ErrorNotFound
	}
	f.notes[note.ID] = note
	return nil
}

func (f *fakeNotesRepo) Deactivate(ctx context.Context, id string) error {
	note, ok := f.notes[id]
	if !ok || !note.Active {
		return common.ErrorNotFound
	}
	note.Active = false
	return nil
}

func (f *fakeNotesRepo) DetachFolder(ctx context.Context, folderID string) error {
	if f.detachErr != nil {
		return f.detachErr
	}
	for _, note := range f.notes {
		if note.Active && note.FolderID != nil && *note.FolderID == folderID {
			note.FolderID = nil
		}
	}
	return nil
}

type fakeSharesRepo struct {
	shares map[string]*models.SharedNote

	createErr error

	// winner models a row committed by a concurrent request: it becomes
	// visible to GetActiveByNote only after Create has failed.
	winner        *models.SharedNote
	winnerVisible bool
}

func newFakeSharesRepo() *fakeSharesRepo {
	return &fakeSharesRepo{shares: map[string]*models.SharedNote{}}
}

func (f *fakeSharesRepo) Create(ctx context.Context, share *models.SharedNote) (*models.SharedNote, error) {
	if f.createErr != nil {
		if f.winner != nil {
			f.winnerVisible = true
		}
		return nil, f.createErr
	}
	share.Active = true
	f.shares[share.ID] = share
	return share, nil
}

func (f *fakeSharesRepo) GetActiveByNote(ctx context.Context, noteID string) (*models.SharedNote, error) {
	if f.winnerVisible && f.winner != nil && f.winner.NoteID == noteID {
		return f.winner, nil
	}
	for _, share := range f.shares {
		if share.NoteID == noteID && share.Active {
			return share, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSharesRepo) GetByToken(ctx context.Context, token string) (*models.SharedNote, error) {
	for _, share := range f.shares {
		if share.Token == token && share.Active {
			return share, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSharesRepo) IncrementViews(ctx context.Context, id string) (int64, error) {
	share, ok := f.shares[id]
	if !ok || !share.Active {
		return 0, common.ErrorNotFound
	}
	share.Views++
	return share.Views, nil
}

func (f *fakeSharesRepo) Deactivate(ctx context.Context, id string) error {
	share, ok := f.shares[id]
	if !ok || !share.Active {
		return common.ErrorNotFound
	}
	share.Active = false
	return nil
}

func (f *fakeSharesRepo) DeactivateByNote(ctx context.Context, noteID string) error {
	found := false
	for _, share := range f.shares {
		if share.NoteID == noteID && share.Active {
			share.Active = false
			found = true
		}
	}
	if !found {
		return common.ErrorNotFound
	}
	return nil
}

type fakeRepoManager struct {
	a *fakeAccountsRepo
	f *fakeFoldersRepo
	n *fakeNotesRepo
	s *fakeSharesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		a: newFakeAccountsRepo(),
		f: newFakeFoldersRepo(),
		n: newFakeNotesRepo(),
		s: newFakeSharesRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accountsrepo.Repository     { return m.a }
func (m *fakeRepoManager) Folders(db dbx.DBTX) foldersrepo.Repository       { return m.f }
func (m *fakeRepoManager) Notes(db dbx.DBTX) notesrepo.Repository           { return m.n }
func (m *fakeRepoManager) Shares(db dbx.DBTX) sharesrepo.Repository         { return m.s }
