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

type fakePurchaseStore struct {
	purchases     map[string]*models.Purchase
	audits        []*models.AuditLog
	transitions   []repository.PurchaseTransitionParams
	transitionErr error
}

func newFakePurchaseStore() *fakePurchaseStore {
	return &fakePurchaseStore{purchases: map[string]*models.Purchase{}}
}

func (f *fakePurchaseStore) Create(_ context.Context, purchase *models.Purchase, audit *models.AuditLog) error {
	if purchase.ID == "" {
		purchase.ID = uuid.NewString()
	}
	f.purchases[purchase.ID] = purchase
	audit.EntityID = purchase.ID
	f.audits = append(f.audits, audit)
	return nil
}

func (f *fakePurchaseStore) GetByID(_ context.Context, id string) (*models.Purchase, error) {
	purchase, ok := f.purchases[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *purchase
	return &clone, nil
}

func (f *fakePurchaseStore) List(_ context.Context, _ models.PurchaseFilter) ([]models.Purchase, error) {
	out := make([]models.Purchase, 0, len(f.purchases))
	for _, p := range f.purchases {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePurchaseStore) Transition(_ context.Context, params repository.PurchaseTransitionParams, audit *models.AuditLog) error {
	if f.transitionErr != nil {
		return f.transitionErr
	}
	stored, ok := f.purchases[params.ID]
	if !ok || stored.Status != params.FromStatus {
		return sql.ErrNoRows
	}
	stored.Status = params.ToStatus
	if params.ApprovedBy != nil {
		stored.ApprovedBy = params.ApprovedBy
	}
	if params.DeliveryDate != nil {
		stored.DeliveryDate = params.DeliveryDate
	}
	f.transitions = append(f.transitions, params)
	f.audits = append(f.audits, audit)
	return nil
}

type stubInvalidator struct {
	calls int
}

func (s *stubInvalidator) Invalidate(context.Context, string) error {
	s.calls++
	return nil
}

func claimsFor(role models.UserRole) *models.JWTClaims {
	return &models.JWTClaims{
		UserID:   "user-" + string(role),
		Username: "u-" + string(role),
		Name:     "User " + string(role),
		Role:     role,
		BaseID:   "base-1",
	}
}

func purchaseRequest() dto.CreatePurchaseRequest {
	return dto.CreatePurchaseRequest{
		AssetType: models.AssetTypeAmmunition,
		AssetName: "5.56mm rounds",
		Quantity:  50,
		UnitPrice: 900,
		Supplier:  "Ordnance Corp",
		BaseID:    "base-1",
	}
}

func TestPurchaseCreate_DerivesTotalAmount(t *testing.T) {
	store := newFakePurchaseStore()
	invalidator := &stubInvalidator{}
	svc := NewPurchaseService(store, invalidator, nil, nil, zap.NewNop())

	purchase, err := svc.Create(context.Background(), purchaseRequest(), claimsFor(models.RoleLogisticsOfficer))
	require.NoError(t, err)

	assert.Equal(t, models.PurchaseStatusPending, purchase.Status)
	assert.Equal(t, float64(45000), purchase.TotalAmount)
	assert.NotEmpty(t, purchase.ID)
	require.Len(t, store.audits, 1)
	assert.Equal(t, models.AuditActionPurchaseCreated, store.audits[0].Action)
	assert.Equal(t, purchase.ID, store.audits[0].EntityID)
	assert.Equal(t, 1, invalidator.calls)
}

func TestPurchaseCreate_DeniedRoleLeavesStoreUntouched(t *testing.T) {
	store := newFakePurchaseStore()
	svc := NewPurchaseService(store, nil, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), purchaseRequest(), claimsFor(models.RoleAdmin))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPermissionDenied.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.purchases)
	assert.Empty(t, store.audits)
}

func TestPurchaseApprove_StampsApprover(t *testing.T) {
	store := newFakePurchaseStore()
	store.purchases["p-1"] = &models.Purchase{ID: "p-1", Status: models.PurchaseStatusPending}
	svc := NewPurchaseService(store, nil, nil, nil, zap.NewNop())

	actor := claimsFor(models.RoleBaseCommander)
	purchase, err := svc.Approve(context.Background(), "p-1", actor)
	require.NoError(t, err)

	assert.Equal(t, models.PurchaseStatusApproved, purchase.Status)
	require.NotNil(t, purchase.ApprovedBy)
	assert.Equal(t, actor.UserID, *purchase.ApprovedBy)
	require.Len(t, store.transitions, 1)
	assert.Equal(t, models.PurchaseStatusPending, store.transitions[0].FromStatus)
	require.Len(t, store.audits, 1)
	assert.Equal(t, models.AuditActionPurchaseApproved, store.audits[0].Action)
}

func TestPurchaseApprove_DeniedWithoutCapability(t *testing.T) {
	store := newFakePurchaseStore()
	store.purchases["p-1"] = &models.Purchase{ID: "p-1", Status: models.PurchaseStatusPending}
	svc := NewPurchaseService(store, nil, nil, nil, zap.NewNop())

	_, err := svc.Approve(context.Background(), "p-1", claimsFor(models.RoleLogisticsOfficer))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPermissionDenied.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.transitions)
	assert.Empty(t, store.audits)
	assert.Equal(t, models.PurchaseStatusPending, store.purchases["p-1"].Status)
}

func TestPurchaseApprove_TwiceIsIllegal(t *testing.T) {
	store := newFakePurchaseStore()
	store.purchases["p-1"] = &models.Purchase{ID: "p-1", Status: models.PurchaseStatusPending}
	svc := NewPurchaseService(store, nil, nil, nil, zap.NewNop())

	actor := claimsFor(models.RoleBaseCommander)
	_, err := svc.Approve(context.Background(), "p-1", actor)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), "p-1", actor)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIllegalTransition.Code, appErrors.FromError(err).Code)
	assert.Len(t, store.transitions, 1)
}

func TestPurchaseDeliver_RequiresApproval(t *testing.T) {
	store := newFakePurchaseStore()
	store.purchases["p-1"] = &models.Purchase{ID: "p-1", Status: models.PurchaseStatusPending}
	svc := NewPurchaseService(store, nil, nil, nil, zap.NewNop())

	_, err := svc.Deliver(context.Background(), "p-1", claimsFor(models.RoleLogisticsOfficer))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIllegalTransition.Code, appErrors.FromError(err).Code)
}

func TestPurchaseTransition_ConcurrentLoserGetsConflict(t *testing.T) {
	store := newFakePurchaseStore()
	store.purchases["p-1"] = &models.Purchase{ID: "p-1", Status: models.PurchaseStatusPending}
	store.transitionErr = sql.ErrNoRows
	svc := NewPurchaseService(store, nil, nil, nil, zap.NewNop())

	_, err := svc.Approve(context.Background(), "p-1", claimsFor(models.RoleBaseCommander))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIllegalTransition.Code, appErrors.FromError(err).Code)
}

func TestPurchaseGet_Missing(t *testing.T) {
	svc := NewPurchaseService(newFakePurchaseStore(), nil, nil, nil, zap.NewNop())

	_, err := svc.Get(context.Background(), "nope", claimsFor(models.RoleAdmin))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPurchaseLifecycle_EndToEnd(t *testing.T) {
	store := newFakePurchaseStore()
	invalidator := &stubInvalidator{}
	svc := NewPurchaseService(store, invalidator, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	logistics := claimsFor(models.RoleLogisticsOfficer)
	commander := claimsFor(models.RoleBaseCommander)

	purchase, err := svc.Create(context.Background(), purchaseRequest(), logistics)
	require.NoError(t, err)
	assert.Equal(t, float64(45000), purchase.TotalAmount)

	_, err = svc.Approve(context.Background(), purchase.ID, commander)
	require.NoError(t, err)

	delivered, err := svc.Deliver(context.Background(), purchase.ID, logistics)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveryDate)
	assert.Equal(t, 2025, delivered.DeliveryDate.Year())

	actions := make([]string, 0, len(store.audits))
	for _, entry := range store.audits {
		actions = append(actions, entry.Action)
	}
	assert.Equal(t, []string{
		models.AuditActionPurchaseCreated,
		models.AuditActionPurchaseApproved,
		models.AuditActionPurchaseDelivered,
	}, actions)
	assert.Equal(t, 3, invalidator.calls)
}
