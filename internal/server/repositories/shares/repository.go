package shares

import (
	"context"

	"github.com/cryptora-app/server/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, share *models.SharedNote) (*models.SharedNote, error)
	GetActiveByNote(ctx context.Context, noteID string) (*models.SharedNote, error)
	GetByToken(ctx context.Context, token string) (*models.SharedNote, error)

	// IncrementViews bumps the view counter atomically and returns the new
	// value.
	IncrementViews(ctx context.Context, id string) (int64, error)

	Deactivate(ctx context.Context, id string) error
	DeactivateByNote(ctx context.Context, noteID string) error
}
