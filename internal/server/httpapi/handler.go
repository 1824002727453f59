// Package httpapi exposes the note service over HTTP. It is a thin layer:
// request decoding, account resolution, and error-to-status mapping. All
// gating, cipher work, and concurrency checks live in the services.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cryptora-app/server/internal/common"
	"github.com/cryptora-app/server/internal/logging"
	"github.com/cryptora-app/server/internal/server/config"
	"github.com/cryptora-app/server/internal/server/models"
	"github.com/cryptora-app/server/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// Service interfaces consumed by the handlers. The concrete implementations
// live in the services package; tests substitute stubs.

type AccountService interface {
	Register(ctx context.Context, alias, password string) (*models.Account, error)
	FindByAlias(ctx context.Context, alias string) (*models.Account, error)
	VerifyPassword(account *models.Account, password string) bool
	TouchLastAccessed(ctx context.Context, id string) error
}

type FolderService interface {
	Create(ctx context.Context, account *models.Account, password string, in services.CreateFolderInput) (*models.Folder, error)
	Get(ctx context.Context, account *models.Account, password, folderID string) (*services.DecryptedFolder, error)
	List(ctx context.Context, account *models.Account) ([]*models.Folder, error)
	Update(ctx context.Context, account *models.Account, password, folderID string, in services.UpdateFolderInput) (*models.Folder, error)
	Delete(ctx context.Context, account *models.Account, password, folderID string) error
}

type NoteService interface {
	Create(ctx context.Context, account *models.Account, password string, in services.CreateNoteInput) (*models.Note, error)
	Get(ctx context.Context, account *models.Account, password, noteID string) (*services.DecryptedNote, error)
	List(ctx context.Context, account *models.Account) ([]*models.Note, error)
	Update(ctx context.Context, account *models.Account, password, noteID string, in services.UpdateNoteInput) (*models.Note, error)
	Delete(ctx context.Context, account *models.Account, password, noteID string) error
}

type ShareService interface {
	Create(ctx context.Context, account *models.Account, password, noteID string, ttlHours *int) (*models.SharedNote, error)
	View(ctx context.Context, token string) (*services.SharedNoteView, error)
	Delete(ctx context.Context, account *models.Account, password, noteID string) (bool, error)
}

type Handler struct {
	accounts AccountService
	folders  FolderService
	notes    NoteService
	shares   ShareService
	logger   logging.Logger
	config   *config.Config
}

func NewHandler(accounts AccountService, folders FolderService, notes NoteService, shares ShareService,
	logger logging.Logger, cfg *config.Config) *Handler {
	return &Handler{
		accounts: accounts,
		folders:  folders,
		notes:    notes,
		shares:   shares,
		logger:   logger,
		config:   cfg,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// resolveAccount loads the active account named in the URL. The password is
// NOT verified here; services gate every sensitive operation themselves.
func (h *Handler) resolveAccount(w http.ResponseWriter, r *http.Request) (*models.Account, bool) {
	alias := chi.URLParam(r, "alias")
	account, err := h.accounts.FindByAlias(r.Context(), alias)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return account, true
}

func password(r *http.Request) string {
	return r.URL.Query().Get("password")
}

func (h *Handler) json(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *Handler) error(w http.ResponseWriter, status int, message string) {
	h.json(w, status, errorResponse{Error: message})
}

// writeError maps service sentinels to HTTP statuses. Invalid password and
// corrupted ciphertext share one message so the API is not a decryption
// oracle.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		h.error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorInvalidPassword):
		h.error(w, http.StatusUnauthorized, "invalid password")
	case errors.Is(err, common.ErrorNotFound):
		h.error(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrContentConflict):
		h.error(w, http.StatusConflict, "note was modified, refresh and retry")
	case errors.Is(err, common.ErrorAlreadyExists):
		h.error(w, http.StatusConflict, "already exists")
	default:
		h.logger.Error(r.Context(), "internal error", "path", r.URL.Path, "error", err.Error())
		h.error(w, http.StatusInternalServerError, "internal error")
	}
}
