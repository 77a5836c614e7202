package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vishalbharath/Military-Assest-Management/internal/dto"
	"github.com/vishalbharath/Military-Assest-Management/internal/models"
	"github.com/vishalbharath/Military-Assest-Management/internal/repository"
	appErrors "github.com/vishalbharath/Military-Assest-Management/pkg/errors"
)

type fakeAssignmentStore struct {
	assignments map[string]*models.Assignment
	audits      []*models.AuditLog
	transitions []repository.AssignmentTransitionParams
}

func newFakeAssignmentStore() *fakeAssignmentStore {
	return &fakeAssignmentStore{assignments: map[string]*models.Assignment{}}
}

func (f *fakeAssignmentStore) Create(_ context.Context, assignment *models.Assignment, audit *models.AuditLog) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	f.assignments[assignment.ID] = assignment
	audit.EntityID = assignment.ID
	f.audits = append(f.audits, audit)
	return nil
}

func (f *fakeAssignmentStore) GetByID(_ context.Context, id string) (*models.Assignment, error) {
	assignment, ok := f.assignments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *assignment
	return &clone, nil
}

func (f *fakeAssignmentStore) List(_ context.Context, _ models.AssignmentFilter) ([]models.Assignment, error) {
	out := make([]models.Assignment, 0, len(f.assignments))
	for _, a := range f.assignments {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAssignmentStore) Transition(_ context.Context, params repository.AssignmentTransitionParams, audit *models.AuditLog) error {
	stored, ok := f.assignments[params.ID]
	if !ok || stored.Status != params.FromStatus {
		return sql.ErrNoRows
	}
	stored.Status = params.ToStatus
	if params.ActualReturnDate != nil {
		stored.ActualReturnDate = params.ActualReturnDate
	}
	f.transitions = append(f.transitions, params)
	f.audits = append(f.audits, audit)
	return nil
}

func assignmentRequest() dto.CreateAssignmentRequest {
	return dto.CreateAssignmentRequest{
		AssetID:    "asset-1",
		AssignedTo: "Sgt. Varma",
		BaseID:     "base-1",
		Purpose:    "patrol duty",
	}
}

func TestAssignmentCreate_AllowedForAssetAndAssignmentManagers(t *testing.T) {
	for _, role := range []models.UserRole{models.RoleLogisticsOfficer, models.RoleBaseCommander} {
		store := newFakeAssignmentStore()
		svc := NewAssignmentService(store, nil, nil, nil, zap.NewNop())

		assignment, err := svc.Create(context.Background(), assignmentRequest(), claimsFor(role))
		require.NoError(t, err, "role %s", role)
		assert.Equal(t, models.AssignmentStatusActive, assignment.Status)
		require.Len(t, store.audits, 1)
		assert.Equal(t, models.AuditActionAssetAssigned, store.audits[0].Action)
	}
}

func TestAssignmentCreate_DeniedForAdmin(t *testing.T) {
	store := newFakeAssignmentStore()
	svc := NewAssignmentService(store, nil, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), assignmentRequest(), claimsFor(models.RoleAdmin))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPermissionDenied.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.assignments)
}

func TestAssignmentReturn_StampsReturnDate(t *testing.T) {
	store := newFakeAssignmentStore()
	store.assignments["a-1"] = &models.Assignment{ID: "a-1", AssetID: "asset-1", Status: models.AssignmentStatusActive}
	svc := NewAssignmentService(store, nil, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 7, 4, 9, 0, 0, 0, time.UTC) }

	assignment, err := svc.Return(context.Background(), "a-1", claimsFor(models.RoleBaseCommander))
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusReturned, assignment.Status)
	require.NotNil(t, assignment.ActualReturnDate)
	assert.Equal(t, time.July, assignment.ActualReturnDate.Month())
	require.Len(t, store.audits, 1)
	assert.Equal(t, models.AuditActionAssetReturned, store.audits[0].Action)
}

func TestAssignmentClose_DeniedForLogistics(t *testing.T) {
	store := newFakeAssignmentStore()
	store.assignments["a-1"] = &models.Assignment{ID: "a-1", Status: models.AssignmentStatusActive}
	svc := NewAssignmentService(store, nil, nil, nil, zap.NewNop())

	_, err := svc.Expend(context.Background(), "a-1", claimsFor(models.RoleLogisticsOfficer))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPermissionDenied.Code, appErrors.FromError(err).Code)
	assert.Equal(t, models.AssignmentStatusActive, store.assignments["a-1"].Status)
}

func TestAssignmentOutcomes_AreTerminal(t *testing.T) {
	for _, status := range []models.AssignmentStatus{
		models.AssignmentStatusReturned,
		models.AssignmentStatusExpended,
		models.AssignmentStatusDamaged,
	} {
		store := newFakeAssignmentStore()
		store.assignments["a-1"] = &models.Assignment{ID: "a-1", Status: status}
		svc := NewAssignmentService(store, nil, nil, nil, zap.NewNop())

		_, err := svc.Damage(context.Background(), "a-1", claimsFor(models.RoleBaseCommander))
		require.Error(t, err, "from %s", status)
		assert.Equal(t, appErrors.ErrIllegalTransition.Code, appErrors.FromError(err).Code)
	}
}

func TestAssignmentGet_Missing(t *testing.T) {
	svc := NewAssignmentService(newFakeAssignmentStore(), nil, nil, nil, zap.NewNop())

	_, err := svc.Get(context.Background(), "nope", claimsFor(models.RoleAdmin))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
