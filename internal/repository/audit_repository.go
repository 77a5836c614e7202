package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vishalbharath/Military-Assest-Management/internal/models"
)

// AuditRepository reads the append-only audit trail. Writes happen through
// insertAuditLog so that entity mutations and their audit entries share a
// transaction; Create exists for events with no entity mutation (login,
// logout). There is no update or delete path.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// insertAuditLog appends an entry using the given executor, which may be a
// transaction. Seq is assigned by the store and strictly increasing.
func insertAuditLog(ctx context.Context, ext sqlx.ExtContext, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	if len(log.Details) == 0 {
		log.Details = []byte("{}")
	}
	const query = `INSERT INTO audit_logs (id, action, entity_type, entity_id, user_id, user_name, timestamp, details)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING seq`
	row := ext.QueryRowxContext(ctx, query,
		log.ID, log.Action, log.EntityType, log.EntityID, log.UserID, log.UserName, log.Timestamp, log.Details)
	if err := row.Scan(&log.Seq); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// Create appends a standalone audit entry.
func (r *AuditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	return insertAuditLog(ctx, r.db, log)
}

// List returns audit entries matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT id, seq, action, entity_type, entity_id, user_id, user_name, timestamp, details FROM audit_logs`)

	conditions := make([]string, 0, 4)
	if filter.Action != "" {
		args = append(args, filter.Action)
		conditions = append(conditions, fmt.Sprintf("action = $%d", len(args)))
	}
	if filter.EntityType != "" {
		args = append(args, filter.EntityType)
		conditions = append(conditions, fmt.Sprintf("entity_type = $%d", len(args)))
	}
	if filter.EntityID != "" {
		args = append(args, filter.EntityID)
		conditions = append(conditions, fmt.Sprintf("entity_id = $%d", len(args)))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY seq DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var logs []models.AuditLog
	if err := r.db.SelectContext(ctx, &logs, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}

// Recent returns the latest n entries.
func (r *AuditRepository) Recent(ctx context.Context, n int) ([]models.AuditLog, error) {
	if n <= 0 {
		n = 10
	}
	const query = `SELECT id, seq, action, entity_type, entity_id, user_id, user_name, timestamp, details
	FROM audit_logs ORDER BY seq DESC LIMIT $1`
	var logs []models.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, n); err != nil {
		return nil, fmt.Errorf("recent audit logs: %w", err)
	}
	return logs, nil
}
