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

// TransferRepository persists inter-base transfers.
type TransferRepository struct {
	db *sqlx.DB
}

// NewTransferRepository constructs the repository.
func NewTransferRepository(db *sqlx.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

// Create inserts a transfer and its creation audit entry in one transaction.
func (r *TransferRepository) Create(ctx context.Context, transfer *models.Transfer, audit *models.AuditLog) error {
	if transfer.ID == "" {
		transfer.ID = uuid.NewString()
	}
	if transfer.Status == "" {
		transfer.Status = models.TransferStatusPending
	}
	if transfer.RequestDate.IsZero() {
		transfer.RequestDate = time.Now().UTC()
	}
	audit.EntityID = transfer.ID

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create transfer: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO transfers
	(id, asset_id, from_base_id, to_base_id, quantity, requested_by, approved_by, status, request_date, approval_date, completion_date, notes)
	VALUES (:id, :asset_id, :from_base_id, :to_base_id, :quantity, :requested_by, :approved_by, :status, :request_date, :approval_date, :completion_date, :notes)`
	if _, err := tx.NamedExecContext(ctx, query, transfer); err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID fetches a transfer by identifier.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*models.Transfer, error) {
	const query = `SELECT id, asset_id, from_base_id, to_base_id, quantity, requested_by, approved_by,
	status, request_date, approval_date, completion_date, notes
	FROM transfers WHERE id = $1`
	var transfer models.Transfer
	if err := r.db.GetContext(ctx, &transfer, query, id); err != nil {
		return nil, err
	}
	return &transfer, nil
}

// List returns transfers matching the filter, newest first.
func (r *TransferRepository) List(ctx context.Context, filter models.TransferFilter) ([]models.Transfer, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT id, asset_id, from_base_id, to_base_id, quantity, requested_by, approved_by,
	status, request_date, approval_date, completion_date, notes FROM transfers`)

	conditions := make([]string, 0, 3)
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.FromBaseID != "" {
		args = append(args, filter.FromBaseID)
		conditions = append(conditions, fmt.Sprintf("from_base_id = $%d", len(args)))
	}
	if filter.ToBaseID != "" {
		args = append(args, filter.ToBaseID)
		conditions = append(conditions, fmt.Sprintf("to_base_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY request_date DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var transfers []models.Transfer
	if err := r.db.SelectContext(ctx, &transfers, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	return transfers, nil
}

// TransferTransitionParams groups the columns stamped by a status transition.
type TransferTransitionParams struct {
	ID             string
	FromStatus     models.TransferStatus
	ToStatus       models.TransferStatus
	ApprovedBy     *string
	ApprovalDate   *time.Time
	CompletionDate *time.Time
}

// Transition applies a status change guarded by the expected current status
// and appends the audit entry in the same transaction. Returns sql.ErrNoRows
// when the row is no longer in FromStatus.
func (r *TransferRepository) Transition(ctx context.Context, params TransferTransitionParams, audit *models.AuditLog) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transfer transition: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	setParts := []string{"status = $1"}
	args := []interface{}{params.ToStatus}
	if params.ApprovedBy != nil {
		args = append(args, *params.ApprovedBy)
		setParts = append(setParts, fmt.Sprintf("approved_by = $%d", len(args)))
	}
	if params.ApprovalDate != nil {
		args = append(args, *params.ApprovalDate)
		setParts = append(setParts, fmt.Sprintf("approval_date = $%d", len(args)))
	}
	if params.CompletionDate != nil {
		args = append(args, *params.CompletionDate)
		setParts = append(setParts, fmt.Sprintf("completion_date = $%d", len(args)))
	}
	args = append(args, params.ID)
	idPos := len(args)
	args = append(args, params.FromStatus)
	query := fmt.Sprintf("UPDATE transfers SET %s WHERE id = $%d AND status = $%d",
		strings.Join(setParts, ", "), idPos, idPos+1)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check transfer update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}
