package folders

import (
	"context"

	"github.com/cryptora-app/server/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, folder *models.Folder) (*models.Folder, error)
	GetByID(ctx context.Context, id string) (*models.Folder, error)
	ListByAccount(ctx context.Context, accountID string) ([]*models.Folder, error)
	Update(ctx context.Context, folder *models.Folder) error
	Deactivate(ctx context.Context, id string) error
}
