package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cryptora-app/server/internal/server/models"
	"github.com/cryptora-app/server/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type createFolderRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type updateFolderRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

type folderResponse struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"account_id"`
	EncryptedName string    `json:"encrypted_name"`
	Color         string    `json:"color"`
	Icon          string    `json:"icon"`
	CreatedAt     time.Time `json:"created_at"`
}

type folderWithDecryptedResponse struct {
	folderResponse
	DecryptedName string `json:"decrypted_name"`
}

func toFolderResponse(f *models.Folder) folderResponse {
	return folderResponse{
		ID:            f.ID,
		AccountID:     f.AccountID,
		EncryptedName: f.EncryptedName,
		Color:         f.Color,
		Icon:          f.Icon,
		CreatedAt:     f.CreatedAt,
	}
}

func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	account, ok := h.resolveAccount(w, r)
	if !ok {
		return
	}

	var req createFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.folders.Create(r.Context(), account, password(r), services.CreateFolderInput{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.json(w, http.StatusCreated, toFolderResponse(folder))
}

func (h *Handler) GetFolder(w http.ResponseWriter, r *http.Request) {
	account, ok := h.resolveAccount(w, r)
	if !ok {
		return
	}

	folder, err := h.folders.Get(r.Context(), account, password(r), chi.URLParam(r, "folderID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.json(w, http.StatusOK, folderWithDecryptedResponse{
		folderResponse: toFolderResponse(folder.Folder),
		DecryptedName:  folder.Name,
	})
}

func (h *Handler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	account, ok := h.resolveAccount(w, r)
	if !ok {
		return
	}

	var req updateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.folders.Update(r.Context(), account, password(r), chi.URLParam(r, "folderID"), services.UpdateFolderInput{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.json(w, http.StatusOK, toFolderResponse(folder))
}

func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	account, ok := h.resolveAccount(w, r)
	if !ok {
		return
	}

	if err := h.folders.Delete(r.Context(), account, password(r), chi.URLParam(r, "folderID")); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
