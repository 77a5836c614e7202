package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vishalbharath/Military-Assest-Management/internal/models"
)

// AssetRepository persists inventory assets.
type AssetRepository struct {
	db *sqlx.DB
}

// NewAssetRepository constructs the repository.
func NewAssetRepository(db *sqlx.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = `id, name, type, serial_number, base_id, status, assigned_to, created_at, updated_at`

// GetByID fetches an asset by identifier.
func (r *AssetRepository) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	query := fmt.Sprintf(`SELECT %s FROM assets WHERE id = $1`, assetColumns)
	var asset models.Asset
	if err := r.db.GetContext(ctx, &asset, query, id); err != nil {
		return nil, err
	}
	return &asset, nil
}

// List returns assets matching the filter.
func (r *AssetRepository) List(ctx context.Context, filter models.AssetFilter) ([]models.Asset, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 3)
	builder.WriteString(fmt.Sprintf(`SELECT %s FROM assets`, assetColumns))

	conditions := make([]string, 0, 3)
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.BaseID != "" {
		args = append(args, filter.BaseID)
		conditions = append(conditions, fmt.Sprintf("base_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY name ASC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var assets []models.Asset
	if err := r.db.SelectContext(ctx, &assets, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

// Create inserts a new asset.
func (r *AssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	if asset.Status == "" {
		asset.Status = models.AssetStatusAvailable
	}
	const query = `INSERT INTO assets (id, name, type, serial_number, base_id, status, assigned_to, created_at, updated_at)
	VALUES (:id, :name, :type, :serial_number, :base_id, :status, :assigned_to, NOW(), NOW())`
	if _, err := r.db.NamedExecContext(ctx, query, asset); err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	return nil
}

// AssetTypeCount is one row of the per-type status breakdown.
type AssetTypeCount struct {
	Type        models.AssetType `db:"type"`
	Count       int              `db:"count"`
	Available   int              `db:"available"`
	Assigned    int              `db:"assigned"`
	Maintenance int              `db:"maintenance"`
	Expended    int              `db:"expended"`
}

// CountByType aggregates asset counts grouped by type with per-status splits.
func (r *AssetRepository) CountByType(ctx context.Context, baseID string) ([]AssetTypeCount, error) {
	builder := strings.Builder{}
	builder.WriteString(`SELECT type,
	COUNT(*) AS count,
	COUNT(*) FILTER (WHERE status = 'AVAILABLE') AS available,
	COUNT(*) FILTER (WHERE status = 'ASSIGNED') AS assigned,
	COUNT(*) FILTER (WHERE status = 'MAINTENANCE') AS maintenance,
	COUNT(*) FILTER (WHERE status = 'EXPENDED') AS expended
	FROM assets`)
	args := []interface{}{}
	if baseID != "" {
		args = append(args, baseID)
		builder.WriteString(" WHERE base_id = $1")
	}
	builder.WriteString(" GROUP BY type ORDER BY type")

	var counts []AssetTypeCount
	if err := r.db.SelectContext(ctx, &counts, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("count assets by type: %w", err)
	}
	return counts, nil
}
