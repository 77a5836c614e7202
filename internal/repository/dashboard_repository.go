package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DashboardRepository computes movement aggregates straight from the stores.
// Nothing here is cached or incrementally maintained; every call reflects
// current store state.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs the repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// AssetsOnHand counts assets that have not been expended.
func (r *DashboardRepository) AssetsOnHand(ctx context.Context, baseID string) (int, error) {
	query := `SELECT COUNT(*) FROM assets WHERE status <> 'EXPENDED'`
	args := []interface{}{}
	if baseID != "" {
		query += ` AND base_id = $1`
		args = append(args, baseID)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count assets on hand: %w", err)
	}
	return count, nil
}

// DeliveredPurchaseQuantity sums units received through delivered purchases.
func (r *DashboardRepository) DeliveredPurchaseQuantity(ctx context.Context, baseID string) (int, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM purchases WHERE status = 'DELIVERED'`
	args := []interface{}{}
	if baseID != "" {
		query += ` AND base_id = $1`
		args = append(args, baseID)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("sum delivered purchases: %w", err)
	}
	return total, nil
}

// TransferMovement holds completed transfer quantities into and out of scope.
type TransferMovement struct {
	In  int `db:"transfer_in"`
	Out int `db:"transfer_out"`
}

// CompletedTransferQuantities sums completed transfer units by direction.
// With no base filter both directions cover the whole network.
func (r *DashboardRepository) CompletedTransferQuantities(ctx context.Context, baseID string) (TransferMovement, error) {
	var movement TransferMovement
	if baseID == "" {
		const query = `SELECT COALESCE(SUM(quantity), 0) AS transfer_in, COALESCE(SUM(quantity), 0) AS transfer_out
		FROM transfers WHERE status = 'COMPLETED'`
		if err := r.db.GetContext(ctx, &movement, query); err != nil {
			return movement, fmt.Errorf("sum completed transfers: %w", err)
		}
		return movement, nil
	}
	const query = `SELECT
	COALESCE(SUM(quantity) FILTER (WHERE to_base_id = $1), 0) AS transfer_in,
	COALESCE(SUM(quantity) FILTER (WHERE from_base_id = $1), 0) AS transfer_out
	FROM transfers WHERE status = 'COMPLETED' AND (to_base_id = $1 OR from_base_id = $1)`
	if err := r.db.GetContext(ctx, &movement, query, baseID); err != nil {
		return movement, fmt.Errorf("sum completed transfers: %w", err)
	}
	return movement, nil
}

// AssignmentTotals holds counts of active and expended assignments.
type AssignmentTotals struct {
	Active   int `db:"active"`
	Expended int `db:"expended"`
}

// AssignmentCounts counts assignments by outcome.
func (r *DashboardRepository) AssignmentCounts(ctx context.Context, baseID string) (AssignmentTotals, error) {
	query := `SELECT
	COUNT(*) FILTER (WHERE status = 'ACTIVE') AS active,
	COUNT(*) FILTER (WHERE status = 'EXPENDED') AS expended
	FROM assignments`
	args := []interface{}{}
	if baseID != "" {
		query += ` WHERE base_id = $1`
		args = append(args, baseID)
	}
	var totals AssignmentTotals
	if err := r.db.GetContext(ctx, &totals, query, args...); err != nil {
		return totals, fmt.Errorf("count assignments: %w", err)
	}
	return totals, nil
}
