package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cryptora-app/server/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type createShareRequest struct {
	TTLHours *int `json:"ttl_hours"`
}

type shareResponse struct {
	ID        string     `json:"id"`
	NoteID    string     `json:"note_id"`
	Token     string     `json:"token"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at"`
	Views     int64      `json:"views"`
}

type shareViewResponse struct {
	Title     *string   `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Views     int64     `json:"views"`
}

type deleteShareResponse struct {
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}

func toShareResponse(s *models.SharedNote) shareResponse {
	return shareResponse{
		ID:        s.ID,
		NoteID:    s.NoteID,
		Token:     s.Token,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		Views:     s.Views,
	}
}

// CreateShare is idempotent: sharing an already-shared note returns the
// existing share with its original token.
func (h *Handler) CreateShare(w http.ResponseWriter, r *http.Request) {
	account, ok := h.resolveAccount(w, r)
	if !ok {
		return
	}

	// an empty body means no expiry
	var req createShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	share, err := h.shares.Create(r.Context(), account, password(r), chi.URLParam(r, "noteID"), req.TTLHours)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.json(w, http.StatusCreated, toShareResponse(share))
}

// ViewShare is the public, passwordless endpoint: the token in the URL is
// the decryption secret. Every successful view bumps the counter.
func (h *Handler) ViewShare(w http.ResponseWriter, r *http.Request) {
	view, err := h.shares.View(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.json(w, http.StatusOK, shareViewResponse{
		Title:     view.Title,
		Content:   view.Content,
		CreatedAt: view.CreatedAt,
		Views:     view.Views,
	})
}

func (h *Handler) DeleteShare(w http.ResponseWriter, r *http.Request) {
	account, ok := h.resolveAccount(w, r)
	if !ok {
		return
	}

	deleted, err := h.shares.Delete(r.Context(), account, password(r), chi.URLParam(r, "noteID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := deleteShareResponse{Deleted: deleted, Message: "share deleted"}
	if !deleted {
		resp.Message = "nothing to delete"
	}
	h.json(w, http.StatusOK, resp)
}
