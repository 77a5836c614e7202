package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vishalbharath/Military-Assest-Management/internal/dto"
	"github.com/vishalbharath/Military-Assest-Management/internal/models"
	"github.com/vishalbharath/Military-Assest-Management/internal/repository"
	appErrors "github.com/vishalbharath/Military-Assest-Management/pkg/errors"
)

type fakeTransferStore struct {
	transfers   map[string]*models.Transfer
	audits      []*models.AuditLog
	transitions []repository.TransferTransitionParams
}

func newFakeTransferStore() *fakeTransferStore {
	return &fakeTransferStore{transfers: map[string]*models.Transfer{}}
}

func (f *fakeTransferStore) Create(_ context.Context, transfer *models.Transfer, audit *models.AuditLog) error {
	if transfer.ID == "" {
		transfer.ID = uuid.NewString()
	}
	f.transfers[transfer.ID] = transfer
	audit.EntityID = transfer.ID
	f.audits = append(f.audits, audit)
	return nil
}

func (f *fakeTransferStore) GetByID(_ context.Context, id string) (*models.Transfer, error) {
	transfer, ok := f.transfers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *transfer
	return &clone, nil
}

func (f *fakeTransferStore) List(_ context.Context, _ models.TransferFilter) ([]models.Transfer, error) {
	out := make([]models.Transfer, 0, len(f.transfers))
	for _, tr := range f.transfers {
		out = append(out, *tr)
	}
	return out, nil
}

func (f *fakeTransferStore) Transition(_ context.Context, params repository.TransferTransitionParams, audit *models.AuditLog) error {
	stored, ok := f.transfers[params.ID]
	if !ok || stored.Status != params.FromStatus {
		return sql.ErrNoRows
	}
	stored.Status = params.ToStatus
	if params.ApprovedBy != nil {
		stored.ApprovedBy = params.ApprovedBy
	}
	if params.ApprovalDate != nil {
		stored.ApprovalDate = params.ApprovalDate
	}
	if params.CompletionDate != nil {
		stored.CompletionDate = params.CompletionDate
	}
	f.transitions = append(f.transitions, params)
	f.audits = append(f.audits, audit)
	return nil
}

func transferRequest() dto.CreateTransferRequest {
	return dto.CreateTransferRequest{
		AssetID:    "asset-1",
		FromBaseID: "base-1",
		ToBaseID:   "base-2",
		Quantity:   10,
	}
}

func TestTransferCreate_RejectsSameBaseRoute(t *testing.T) {
	store := newFakeTransferStore()
	svc := NewTransferService(store, nil, nil, nil, zap.NewNop())

	req := transferRequest()
	req.ToBaseID = req.FromBaseID
	_, err := svc.Create(context.Background(), req, claimsFor(models.RoleLogisticsOfficer))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRoute.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.transfers)
	assert.Empty(t, store.audits)
}

func TestTransferCreate_DeniedRole(t *testing.T) {
	store := newFakeTransferStore()
	svc := NewTransferService(store, nil, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), transferRequest(), claimsFor(models.RoleBaseCommander))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPermissionDenied.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.transfers)
}

func TestTransferLifecycle_EndToEnd(t *testing.T) {
	store := newFakeTransferStore()
	invalidator := &stubInvalidator{}
	svc := NewTransferService(store, invalidator, nil, nil, zap.NewNop())

	logistics := claimsFor(models.RoleLogisticsOfficer)
	commander := claimsFor(models.RoleBaseCommander)

	transfer, err := svc.Create(context.Background(), transferRequest(), logistics)
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusPending, transfer.Status)

	approved, err := svc.Approve(context.Background(), transfer.ID, commander)
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, commander.UserID, *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovalDate)

	_, err = svc.Dispatch(context.Background(), transfer.ID, logistics)
	require.NoError(t, err)

	completed, err := svc.Complete(context.Background(), transfer.ID, logistics)
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletionDate)

	actions := make([]string, 0, len(store.audits))
	for _, entry := range store.audits {
		actions = append(actions, entry.Action)
	}
	assert.Equal(t, []string{
		models.AuditActionTransferCreated,
		models.AuditActionTransferApproved,
		models.AuditActionTransferDispatched,
		models.AuditActionTransferCompleted,
	}, actions)
	assert.Equal(t, 4, invalidator.calls)
}

func TestTransferDispatch_BeforeApprovalIsIllegal(t *testing.T) {
	store := newFakeTransferStore()
	store.transfers["t-1"] = &models.Transfer{ID: "t-1", Status: models.TransferStatusPending}
	svc := NewTransferService(store, nil, nil, nil, zap.NewNop())

	_, err := svc.Dispatch(context.Background(), "t-1", claimsFor(models.RoleLogisticsOfficer))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIllegalTransition.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.transitions)
}

func TestTransferComplete_OnCompletedIsIllegal(t *testing.T) {
	store := newFakeTransferStore()
	store.transfers["t-1"] = &models.Transfer{ID: "t-1", Status: models.TransferStatusCompleted}
	svc := NewTransferService(store, nil, nil, nil, zap.NewNop())

	_, err := svc.Complete(context.Background(), "t-1", claimsFor(models.RoleLogisticsOfficer))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIllegalTransition.Code, appErrors.FromError(err).Code)
}
