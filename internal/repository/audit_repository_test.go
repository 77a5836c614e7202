package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/vishalbharath/Military-Assest-Management/internal/models"
)

func TestAuditRepositoryCreate_AssignsIDAndSeq(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(42)))

	entry := &models.AuditLog{
		Action:     models.AuditActionLogin,
		EntityType: models.EntityTypeAuth,
		EntityID:   "user-1",
		UserID:     "user-1",
		UserName:   "Commander Rao",
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	require.NotEmpty(t, entry.ID)
	require.Equal(t, int64(42), entry.Seq)
	require.False(t, entry.Timestamp.IsZero())
	require.Equal(t, []byte("{}"), entry.Details)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryList_FiltersAndOrdersBySeq(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)
	rows := sqlmock.NewRows([]string{"id", "seq", "action", "entity_type", "entity_id", "user_id", "user_name", "timestamp", "details"}).
		AddRow("a-2", int64(2), "PURCHASE_APPROVED", "PURCHASE", "p-1", "u-1", "Cdr", time.Now(), []byte(`{}`)).
		AddRow("a-1", int64(1), "PURCHASE_CREATED", "PURCHASE", "p-1", "u-2", "Log", time.Now(), []byte(`{}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, seq, action, entity_type, entity_id, user_id, user_name, timestamp, details FROM audit_logs")).
		WithArgs("PURCHASE", "p-1").
		WillReturnRows(rows)

	logs, err := repo.List(context.Background(), models.AuditFilter{EntityType: models.EntityTypePurchase, EntityID: "p-1"})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Greater(t, logs[0].Seq, logs[1].Seq)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryRecent_DefaultsLimit(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_logs ORDER BY seq DESC LIMIT $1")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "seq", "action", "entity_type", "entity_id", "user_id", "user_name", "timestamp", "details"}))

	logs, err := repo.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, logs)
	require.NoError(t, mock.ExpectationsWereMet())
}
