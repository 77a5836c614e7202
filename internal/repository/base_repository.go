package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vishalbharath/Military-Assest-Management/internal/models"
)

// BaseRepository persists military bases.
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository constructs the repository.
func NewBaseRepository(db *sqlx.DB) *BaseRepository {
	return &BaseRepository{db: db}
}

// GetByID fetches a base by identifier.
func (r *BaseRepository) GetByID(ctx context.Context, id string) (*models.Base, error) {
	const query = `SELECT id, name, location, commander_id, active, created_at, updated_at FROM bases WHERE id = $1`
	var base models.Base
	if err := r.db.GetContext(ctx, &base, query, id); err != nil {
		return nil, err
	}
	return &base, nil
}

// List returns all bases, active first.
func (r *BaseRepository) List(ctx context.Context) ([]models.Base, error) {
	const query = `SELECT id, name, location, commander_id, active, created_at, updated_at
	FROM bases ORDER BY active DESC, name ASC`
	var bases []models.Base
	if err := r.db.SelectContext(ctx, &bases, query); err != nil {
		return nil, fmt.Errorf("list bases: %w", err)
	}
	return bases, nil
}

// Create inserts a new base.
func (r *BaseRepository) Create(ctx context.Context, base *models.Base) error {
	if base.ID == "" {
		base.ID = uuid.NewString()
	}
	const query = `INSERT INTO bases (id, name, location, commander_id, active, created_at, updated_at)
	VALUES (:id, :name, :location, :commander_id, :active, NOW(), NOW())`
	if _, err := r.db.NamedExecContext(ctx, query, base); err != nil {
		return fmt.Errorf("create base: %w", err)
	}
	return nil
}
