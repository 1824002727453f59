package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cryptora-app/server/internal/server/models"
	"github.com/cryptora-app/server/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type createNoteRequest struct {
	Title    *string `json:"title"`
	Content  string  `json:"content"`
	FolderID *string `json:"folder_id"`
}

// updateNoteRequest keeps folder_id as raw JSON to preserve the tri-state:
// an absent key leaves the note where it is, an explicit null detaches it,
// and an id moves it.
type updateNoteRequest struct {
	Title        *string         `json:"title"`
	Content      string          `json:"content"`
	FolderID     json.RawMessage `json:"folder_id"`
	PreviousHash *string         `json:"previous_hash"`
}

func (req *updateNoteRequest) folderRef() (services.FolderRef, error) {
	if len(req.FolderID) == 0 {
		return services.FolderUnchanged(), nil
	}
	if bytes.Equal(bytes.TrimSpace(req.FolderID), []byte("null")) {
		return services.FolderDetach(), nil
	}
	var id string
	if err := json.Unmarshal(req.FolderID, &id); err != nil {
		return services.FolderRef{}, err
	}
	// an empty id is neither a folder nor an explicit detach
	if id == "" {
		return services.FolderRef{}, errors.New("empty folder id")
	}
	return services.FolderMoveTo(id), nil
}

type noteResponse struct {
	ID               string     `json:"id"`
	AccountID        string     `json:"account_id"`
	FolderID         *string    `json:"folder_id"`
	EncryptedTitle   *string    `json:"encrypted_title"`
	EncryptedContent string     `json:"encrypted_content"`
	ContentHash      string     `json:"content_hash"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

type noteWithDecryptedResponse struct {
	noteResponse
	DecryptedTitle   *string `json:"decrypted_title"`
	DecryptedContent string  `json:"decrypted_content"`
}

func toNoteResponse(n *models.Note) noteResponse {
	return noteResponse{
		ID:               n.ID,
		AccountID:        n.AccountID,
		FolderID:         n.FolderID,
		EncryptedTitle:   n.EncryptedTitle,
		EncryptedContent: n.EncryptedContent,
		ContentHash:      n.ContentHash,
		CreatedAt:        n.CreatedAt,
		UpdatedAt:        n.UpdatedAt,
	}
}

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	account, ok := h.resolveAccount(w, r)
	if !ok {
		return
	}

	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := h.notes.Create(r.Context(), account, password(r), services.CreateNoteInput{
		Title:    req.Title,
		Content:  req.Content,
		FolderID: req.FolderID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.json(w, http.StatusCreated, toNoteResponse(note))
}

func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	account, ok := h.resolveAccount(w, r)
	if !ok {
		return
	}

	note, err := h.notes.Get(r.Context(), account, password(r), chi.URLParam(r, "noteID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.json(w, http.StatusOK, noteWithDecryptedResponse{
		noteResponse:     toNoteResponse(note.Note),
		DecryptedTitle:   note.Title,
		DecryptedContent: note.Content,
	})
}

func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	account, ok := h.resolveAccount(w, r)
	if !ok {
		return
	}

	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	folderRef, err := req.folderRef()
	if err != nil {
		h.error(w, http.StatusBadRequest, "invalid folder_id")
		return
	}

	note, err := h.notes.Update(r.Context(), account, password(r), chi.URLParam(r, "noteID"), services.UpdateNoteInput{
		Title:        req.Title,
		Content:      req.Content,
		Folder:       folderRef,
		PreviousHash: req.PreviousHash,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.json(w, http.StatusOK, toNoteResponse(note))
}

func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	account, ok := h.resolveAccount(w, r)
	if !ok {
		return
	}

	if err := h.notes.Delete(r.Context(), account, password(r), chi.URLParam(r, "noteID")); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
