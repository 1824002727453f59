package accounts

import (
	"context"

	"github.com/cryptora-app/server/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByAlias(ctx context.Context, alias string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	TouchLastAccessed(ctx context.Context, id string) error
}
