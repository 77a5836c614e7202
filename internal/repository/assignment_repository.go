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

// AssignmentRepository persists asset assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts an assignment and its creation audit entry in one transaction.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment, audit *models.AuditLog) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.Status == "" {
		assignment.Status = models.AssignmentStatusActive
	}
	if assignment.AssignmentDate.IsZero() {
		assignment.AssignmentDate = time.Now().UTC()
	}
	audit.EntityID = assignment.ID

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create assignment: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO assignments
	(id, asset_id, assigned_to, assigned_by, base_id, assignment_date, expected_return_date, actual_return_date, status, purpose, notes)
	VALUES (:id, :asset_id, :assigned_to, :assigned_by, :base_id, :assignment_date, :expected_return_date, :actual_return_date, :status, :purpose, :notes)`
	if _, err := tx.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID fetches an assignment by identifier.
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	const query = `SELECT id, asset_id, assigned_to, assigned_by, base_id, assignment_date,
	expected_return_date, actual_return_date, status, purpose, notes
	FROM assignments WHERE id = $1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// List returns assignments matching the filter, newest first.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT id, asset_id, assigned_to, assigned_by, base_id, assignment_date,
	expected_return_date, actual_return_date, status, purpose, notes FROM assignments`)

	conditions := make([]string, 0, 3)
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.BaseID != "" {
		args = append(args, filter.BaseID)
		conditions = append(conditions, fmt.Sprintf("base_id = $%d", len(args)))
	}
	if filter.AssignedTo != "" {
		args = append(args, filter.AssignedTo)
		conditions = append(conditions, fmt.Sprintf("assigned_to = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY assignment_date DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// AssignmentTransitionParams groups the columns stamped by a status transition.
type AssignmentTransitionParams struct {
	ID               string
	FromStatus       models.AssignmentStatus
	ToStatus         models.AssignmentStatus
	ActualReturnDate *time.Time
}

// Transition applies a status change guarded by the expected current status
// and appends the audit entry in the same transaction. Returns sql.ErrNoRows
// when the row is no longer in FromStatus.
func (r *AssignmentRepository) Transition(ctx context.Context, params AssignmentTransitionParams, audit *models.AuditLog) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assignment transition: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	setParts := []string{"status = $1"}
	args := []interface{}{params.ToStatus}
	if params.ActualReturnDate != nil {
		args = append(args, *params.ActualReturnDate)
		setParts = append(setParts, fmt.Sprintf("actual_return_date = $%d", len(args)))
	}
	args = append(args, params.ID)
	idPos := len(args)
	args = append(args, params.FromStatus)
	query := fmt.Sprintf("UPDATE assignments SET %s WHERE id = $%d AND status = $%d",
		strings.Join(setParts, ", "), idPos, idPos+1)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update assignment status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check assignment update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	if err := insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}
