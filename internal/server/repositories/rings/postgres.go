// Package rings provides the PostgreSQL-backed ring store. The store assigns
// ids and timestamps; bearer and forged_by are foreign keys into users.
package rings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ringkeeper/internal/common"
	"github.com/dmitrijs2005/ringkeeper/internal/dbx"
	"github.com/dmitrijs2005/ringkeeper/internal/server/models"
)

const ringColumns = `id, name, power, bearer, forged_by, image, created_at, updated_at`

// constraintFields maps foreign key constraints to the payload field at fault.
var constraintFields = map[string]string{
	"rings_bearer_fkey":    "bearer",
	"rings_forged_by_fkey": "forgedBy",
}

// PostgresRepository implements ring storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRing(s scanner) (*models.Ring, error) {
	r := &models.Ring{}
	err := s.Scan(&r.ID, &r.Name, &r.Power, &r.Bearer, &r.ForgedBy, &r.Image, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// writeError translates driver errors raised by INSERT and UPDATE.
func writeError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	if constraint, ok := dbx.ForeignKeyViolation(err); ok {
		field, known := constraintFields[constraint]
		if !known {
			field = constraint
		}
		return &common.ReferenceError{Field: field}
	}
	return fmt.Errorf("db error: %w", err)
}

// Create inserts ring and returns the stored row.
func (r *PostgresRepository) Create(ctx context.Context, ring *models.Ring) (*models.Ring, error) {
	query := `
		INSERT INTO rings (name, power, bearer, forged_by, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + ringColumns

	created, err := scanRing(r.db.QueryRowContext(ctx, query,
		ring.Name, ring.Power, ring.Bearer, ring.ForgedBy, ring.Image))
	if err != nil {
		return nil, writeError(err)
	}
	return created, nil
}

// GetByID returns the ring with the given id or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Ring, error) {
	query := `SELECT ` + ringColumns + ` FROM rings WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// LockByID is GetByID holding a row lock until the surrounding transaction ends.
func (r *PostgresRepository) LockByID(ctx context.Context, id int64) (*models.Ring, error) {
	query := `SELECT ` + ringColumns + ` FROM rings WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, id int64) (*models.Ring, error) {
	ring, err := scanRing(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ring, nil
}

// List returns every ring ordered by id. The result is never nil.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Ring, error) {
	query := `SELECT ` + ringColumns + ` FROM rings ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select rings: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Ring, 0)
	for rows.Next() {
		ring, err := scanRing(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, ring)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update replaces name, power, bearer and image of ring.ID and bumps
// updated_at. forged_by and created_at are never written.
func (r *PostgresRepository) Update(ctx context.Context, ring *models.Ring) (*models.Ring, error) {
	query := `
		UPDATE rings
		SET name = $2, power = $3, bearer = $4, image = $5, updated_at = now()
		WHERE id = $1
		RETURNING ` + ringColumns

	updated, err := scanRing(r.db.QueryRowContext(ctx, query,
		ring.ID, ring.Name, ring.Power, ring.Bearer, ring.Image))
	if err != nil {
		return nil, writeError(err)
	}
	return updated, nil
}

// Delete removes the ring, or returns common.ErrorNotFound if there was none.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
