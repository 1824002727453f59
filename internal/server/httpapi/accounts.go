package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cryptora-app/server/internal/common"
	"github.com/cryptora-app/server/internal/server/models"
)

type registerRequest struct {
	Alias    string `json:"alias"`
	Password string `json:"password"`
}

type loginRequest struct {
	Alias    string `json:"alias"`
	Password string `json:"password"`
}

type accountResponse struct {
	ID             string    `json:"id"`
	Alias          string    `json:"alias"`
	EncryptedAlias string    `json:"encrypted_alias"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

type loginResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	User    *accountResponse `json:"user,omitempty"`
}

type accountOverviewResponse struct {
	accountResponse
	Folders []folderResponse `json:"folders"`
	Notes   []noteResponse   `json:"notes"`
}

func toAccountResponse(a *models.Account) accountResponse {
	return accountResponse{
		ID:             a.ID,
		Alias:          a.Alias,
		EncryptedAlias: a.EncryptedAlias,
		CreatedAt:      a.CreatedAt,
		LastAccessedAt: a.LastAccessedAt,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accounts.Register(r.Context(), req.Alias, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.json(w, http.StatusCreated, toAccountResponse(account))
}

// Login reports failure inside a success=false body rather than a 4xx, and
// refreshes the last-access timestamp on success.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accounts.FindByAlias(r.Context(), req.Alias)
	if errors.Is(err, common.ErrorNotFound) {
		h.json(w, http.StatusOK, loginResponse{Success: false, Message: "User not found"})
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !h.accounts.VerifyPassword(account, req.Password) {
		h.json(w, http.StatusOK, loginResponse{Success: false, Message: "Invalid password"})
		return
	}

	if err := h.accounts.TouchLastAccessed(r.Context(), account.ID); err != nil {
		h.writeError(w, r, err)
		return
	}

	user := toAccountResponse(account)
	h.json(w, http.StatusOK, loginResponse{Success: true, Message: "Login successful", User: &user})
}

// GetAccountOverview returns the account with all its folders and notes,
// ciphertext only. No password is required to see that the account exists.
func (h *Handler) GetAccountOverview(w http.ResponseWriter, r *http.Request) {
	account, ok := h.resolveAccount(w, r)
	if !ok {
		return
	}

	folders, err := h.folders.List(r.Context(), account)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	notes, err := h.notes.List(r.Context(), account)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := accountOverviewResponse{
		accountResponse: toAccountResponse(account),
		Folders:         make([]folderResponse, 0, len(folders)),
		Notes:           make([]noteResponse, 0, len(notes)),
	}
	for _, f := range folders {
		resp.Folders = append(resp.Folders, toFolderResponse(f))
	}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, toNoteResponse(n))
	}

	h.json(w, http.StatusOK, resp)
}
