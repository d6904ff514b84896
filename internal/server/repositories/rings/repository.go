package rings

import (
	"context"

	"github.com/dmitrijs2005/ringkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, ring *models.Ring) (*models.Ring, error)
	GetByID(ctx context.Context, id int64) (*models.Ring, error)
	LockByID(ctx context.Context, id int64) (*models.Ring, error)
	List(ctx context.Context) ([]*models.Ring, error)
	Update(ctx context.Context, ring *models.Ring) (*models.Ring, error)
	Delete(ctx context.Context, id int64) error
}
