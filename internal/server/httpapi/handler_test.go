package httpapi

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/cryptora-app/server/internal/logging"
	"github.com/cryptora-app/server/internal/server/config"
	"github.com/cryptora-app/server/internal/server/models"
	"github.com/cryptora-app/server/internal/server/services"
)

// --- stub services ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type stubAccounts struct {
	registerOut *models.Account
	registerErr error

	findOut *models.Account
	findErr error

	verifyOK bool

	touchErr error
	touched  []string
}

func (s *stubAccounts) Register(ctx context.Context, alias, password string) (*models.Account, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return s.registerOut, nil
}

func (s *stubAccounts) FindByAlias(ctx context.Context, alias string) (*models.Account, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.findOut, nil
}

func (s *stubAccounts) VerifyPassword(account *models.Account, password string) bool {
	return s.verifyOK
}

func (s *stubAccounts) TouchLastAccessed(ctx context.Context, id string) error {
	s.touched = append(s.touched, id)
	return s.touchErr
}

type stubFolders struct {
	createOut *models.Folder
	createErr error

	getOut *services.DecryptedFolder
	getErr error

	listOut []*models.Folder
	listErr error

	updateOut *models.Folder
	updateErr error

	deleteErr error
}

func (s *stubFolders) Create(ctx context.Context, account *models.Account, password string, in services.CreateFolderInput) (*models.Folder, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createOut, nil
}

func (s *stubFolders) Get(ctx context.Context, account *models.Account, password, folderID string) (*services.DecryptedFolder, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.getOut, nil
}

func (s *stubFolders) List(ctx context.Context, account *models.Account) ([]*models.Folder, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listOut, nil
}

func (s *stubFolders) Update(ctx context.Context, account *models.Account, password, folderID string, in services.UpdateFolderInput) (*models.Folder, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.updateOut, nil
}

func (s *stubFolders) Delete(ctx context.Context, account *models.Account, password, folderID string) error {
	return s.deleteErr
}

type stubNotes struct {
	createOut *models.Note
	createErr error

	getOut *services.DecryptedNote
	getErr error

	listOut []*models.Note
	listErr error

	updateOut *models.Note
	updateErr error
	updateIn  *services.UpdateNoteInput

	deleteErr error
}

func (s *stubNotes) Create(ctx context.Context, account *models.Account, password string, in services.CreateNoteInput) (*models.Note, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createOut, nil
}

func (s *stubNotes) Get(ctx context.Context, account *models.Account, password, noteID string) (*services.DecryptedNote, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.getOut, nil
}

func (s *stubNotes) List(ctx context.Context, account *models.Account) ([]*models.Note, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listOut, nil
}

func (s *stubNotes) Update(ctx context.Context, account *models.Account, password, noteID string, in services.UpdateNoteInput) (*models.Note, error) {
	s.updateIn = &in
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.updateOut, nil
}

func (s *stubNotes) Delete(ctx context.Context, account *models.Account, password, noteID string) error {
	return s.deleteErr
}

type stubShares struct {
	createOut *models.SharedNote
	createErr error
	createTTL *int

	viewOut *services.SharedNoteView
	viewErr error

	deleteOut bool
	deleteErr error
}

func (s *stubShares) Create(ctx context.Context, account *models.Account, password, noteID string, ttlHours *int) (*models.SharedNote, error) {
	s.createTTL = ttlHours
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createOut, nil
}

func (s *stubShares) View(ctx context.Context, token string) (*services.SharedNoteView, error) {
	if s.viewErr != nil {
		return nil, s.viewErr
	}
	return s.viewOut, nil
}

func (s *stubShares) Delete(ctx context.Context, account *models.Account, password, noteID string) (bool, error) {
	if s.deleteErr != nil {
		return false, s.deleteErr
	}
	return s.deleteOut, nil
}

type stubs struct {
	accounts *stubAccounts
	folders  *stubFolders
	notes    *stubNotes
	shares   *stubShares
}

func newTestHandler(t *testing.T) (*Handler, *stubs) {
	t.Helper()
	st := &stubs{
		accounts: &stubAccounts{},
		folders:  &stubFolders{},
		notes:    &stubNotes{},
		shares:   &stubShares{},
	}
	cfg := &config.Config{}
	cfg.LoadDefaults()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	h := NewHandler(st.accounts, st.folders, st.notes, st.shares, logger, cfg)
	return h, st
}
