package notes

import (
	"context"

	"github.com/cryptora-app/server/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	GetByID(ctx context.Context, id string) (*models.Note, error)
	ListByAccount(ctx context.Context, accountID string) ([]*models.Note, error)
	Update(ctx context.Context, note *models.Note) error
	Deactivate(ctx context.Context, id string) error

	// DetachFolder clears the folder reference on every active note in the
	// folder. Used when a folder is deleted: its notes survive.
	DetachFolder(ctx context.Context, folderID string) error
}
