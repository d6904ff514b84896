package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/ringkeeper/internal/dbx"
	"github.com/dmitrijs2005/ringkeeper/internal/server/models"
	"github.com/dmitrijs2005/ringkeeper/internal/server/repositories/repomanager"
)

// RingService orchestrates ring persistence. Authorship is decided here:
// ForgedBy is always the caller, never the client payload.
type RingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRingService(db *sql.DB, m repomanager.RepositoryManager) *RingService {
	return &RingService{db: db, repomanager: m}
}

// Create stores ring with ForgedBy set to forgerID.
func (s *RingService) Create(ctx context.Context, forgerID string, ring *models.Ring) (*models.Ring, error) {
	ring.ForgedBy = forgerID
	return s.repomanager.Rings(s.db).Create(ctx, ring)
}

// Get returns a ring or common.ErrorNotFound.
func (s *RingService) Get(ctx context.Context, id int64) (*models.Ring, error) {
	return s.repomanager.Rings(s.db).GetByID(ctx, id)
}

// List returns every ring.
func (s *RingService) List(ctx context.Context) ([]*models.Ring, error) {
	return s.repomanager.Rings(s.db).List(ctx)
}

// Update applies changes to ring id under a row lock. The stored ForgedBy
// survives; a ring deleted concurrently yields common.ErrorNotFound.
func (s *RingService) Update(ctx context.Context, id int64, changes models.RingChanges) (*models.Ring, error) {
	var updated *models.Ring
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Rings(tx)

		current, err := repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		changes.Apply(current)

		updated, err = repo.Update(ctx, current)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error updating ring %d: %w", id, err)
	}
	return updated, nil
}

// Delete removes ring id or returns common.ErrorNotFound.
func (s *RingService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Rings(s.db).Delete(ctx, id)
}
