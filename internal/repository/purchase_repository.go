package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vishalbharath/Military-Assest-Management/internal/models"
)

// PurchaseRepository persists procurement orders.
type PurchaseRepository struct {
	db *sqlx.DB
}

// NewPurchaseRepository constructs the repository.
func NewPurchaseRepository(db *sqlx.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// Create inserts a purchase and its creation audit entry in one transaction.
func (r *PurchaseRepository) Create(ctx context.Context, purchase *models.Purchase, audit *models.AuditLog) error {
	if purchase.ID == "" {
		purchase.ID = uuid.NewString()
	}
	if purchase.Status == "" {
		purchase.Status = models.PurchaseStatusPending
	}
	if purchase.OrderDate.IsZero() {
		purchase.OrderDate = time.Now().UTC()
	}
	audit.EntityID = purchase.ID

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create purchase: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO purchases
	(id, asset_type, asset_name, quantity, unit_price, total_amount, supplier, base_id, purchased_by, approved_by, status, order_date, delivery_date, notes)
	VALUES (:id, :asset_type, :asset_name, :quantity, :unit_price, :total_amount, :supplier, :base_id, :purchased_by, :approved_by, :status, :order_date, :delivery_date, :notes)`
	if _, err := tx.NamedExecContext(ctx, query, purchase); err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID fetches a purchase by identifier.
func (r *PurchaseRepository) GetByID(ctx context.Context, id string) (*models.Purchase, error) {
	const query = `SELECT id, asset_type, asset_name, quantity, unit_price, total_amount, supplier, base_id,
	purchased_by, approved_by, status, order_date, delivery_date, notes
	FROM purchases WHERE id = $1`
	var purchase models.Purchase
	if err := r.db.GetContext(ctx, &purchase, query, id); err != nil {
		return nil, err
	}
	return &purchase, nil
}

// List returns purchases matching the filter, newest first.
func (r *PurchaseRepository) List(ctx context.Context, filter models.PurchaseFilter) ([]models.Purchase, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT id, asset_type, asset_name, quantity, unit_price, total_amount, supplier, base_id,
	purchased_by, approved_by, status, order_date, delivery_date, notes FROM purchases`)

	conditions := make([]string, 0, 3)
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.AssetType != "" {
		args = append(args, filter.AssetType)
		conditions = append(conditions, fmt.Sprintf("asset_type = $%d", len(args)))
	}
	if filter.BaseID != "" {
		args = append(args, filter.BaseID)
		conditions = append(conditions, fmt.Sprintf("base_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY order_date DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var purchases []models.Purchase
	if err := r.db.SelectContext(ctx, &purchases, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return purchases, nil
}

// PurchaseTransitionParams groups the columns stamped by a status transition.
type PurchaseTransitionParams struct {
	ID           string
	FromStatus   models.PurchaseStatus
	ToStatus     models.PurchaseStatus
	ApprovedBy   *string
	DeliveryDate *time.Time
}

// Transition applies a status change guarded by the expected current status
// and appends the audit entry in the same transaction. Returns sql.ErrNoRows
// when the row is no longer in FromStatus, which serializes concurrent
// transitions on the same purchase.
func (r *PurchaseRepository) Transition(ctx context.Context, params PurchaseTransitionParams, audit *models.AuditLog) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin purchase transition: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	setParts := []string{"status = $1"}
	args := []interface{}{params.ToStatus}
	if params.ApprovedBy != nil {
		args = append(args, *params.ApprovedBy)
		setParts = append(setParts, fmt.Sprintf("approved_by = $%d", len(args)))
	}
	if params.DeliveryDate != nil {
		args = append(args, *params.DeliveryDate)
		setParts = append(setParts, fmt.Sprintf("delivery_date = $%d", len(args)))
	}
	args = append(args, params.ID)
	idPos := len(args)
	args = append(args, params.FromStatus)
	query := fmt.Sprintf("UPDATE purchases SET %s WHERE id = $%d AND status = $%d",
		strings.Join(setParts, ", "), idPos, idPos+1)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update purchase status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check purchase update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}
