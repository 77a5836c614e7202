package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vishalbharath/Military-Assest-Management/internal/models"
	"github.com/vishalbharath/Military-Assest-Management/internal/repository"
	appErrors "github.com/vishalbharath/Military-Assest-Management/pkg/errors"
)

type stubCacheRepo struct {
	entries map[string][]byte
}

func newStubCacheRepo() *stubCacheRepo {
	return &stubCacheRepo{entries: map[string][]byte{}}
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := s.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.entries[key] = raw
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, _ string) error {
	s.entries = map[string][]byte{}
	return nil
}

type fakeDashboardQueries struct {
	onHand    int
	delivered int
	movement  repository.TransferMovement
	totals    repository.AssignmentTotals
	calls     int
}

func (f *fakeDashboardQueries) AssetsOnHand(context.Context, string) (int, error) {
	f.calls++
	return f.onHand, nil
}

func (f *fakeDashboardQueries) DeliveredPurchaseQuantity(context.Context, string) (int, error) {
	return f.delivered, nil
}

func (f *fakeDashboardQueries) CompletedTransferQuantities(context.Context, string) (repository.TransferMovement, error) {
	return f.movement, nil
}

func (f *fakeDashboardQueries) AssignmentCounts(context.Context, string) (repository.AssignmentTotals, error) {
	return f.totals, nil
}

type fakeAssetCounter struct {
	counts []repository.AssetTypeCount
}

func (f *fakeAssetCounter) CountByType(context.Context, string) ([]repository.AssetTypeCount, error) {
	return f.counts, nil
}

type fakeActivityFeed struct {
	logs []models.AuditLog
}

func (f *fakeActivityFeed) Recent(context.Context, int) ([]models.AuditLog, error) {
	return f.logs, nil
}

func TestDashboardMetrics_BalancesAndMovement(t *testing.T) {
	queries := &fakeDashboardQueries{
		onHand:    100,
		delivered: 40,
		movement:  repository.TransferMovement{In: 10, Out: 5},
		totals:    repository.AssignmentTotals{Active: 12, Expended: 15},
	}
	assets := &fakeAssetCounter{counts: []repository.AssetTypeCount{
		{Type: models.AssetTypeWeapon, Count: 60, Available: 50, Assigned: 10},
		{Type: models.AssetTypeVehicle, Count: 40, Available: 40},
	}}
	feed := &fakeActivityFeed{logs: []models.AuditLog{{Seq: 2, Action: models.AuditActionPurchaseApproved}}}

	svc := NewDashboardService(queries, assets, feed, nil, zap.NewNop(), time.Minute, 10)
	resp, err := svc.Metrics(context.Background(), "base-1", claimsFor(models.RoleBaseCommander))
	require.NoError(t, err)

	// net = 40 delivered + 10 in - 5 out - 15 expended
	assert.Equal(t, 30, resp.NetMovement)
	assert.Equal(t, 100, resp.ClosingBalance)
	assert.Equal(t, 70, resp.OpeningBalance)
	assert.Equal(t, 12, resp.TotalAssigned)
	assert.Equal(t, 15, resp.TotalExpended)
	require.Len(t, resp.AssetsByType, 2)
	assert.Equal(t, models.AssetTypeWeapon, resp.AssetsByType[0].Type)
	require.Len(t, resp.RecentActivity, 1)
	assert.Equal(t, models.AuditActionPurchaseApproved, resp.RecentActivity[0].Action)
}

func TestDashboardMetrics_ServedFromCacheOnSecondCall(t *testing.T) {
	queries := &fakeDashboardQueries{onHand: 50}
	assets := &fakeAssetCounter{}
	feed := &fakeActivityFeed{}
	cacheSvc := NewCacheService(newStubCacheRepo(), nil, time.Minute, zap.NewNop(), true)

	svc := NewDashboardService(queries, assets, feed, cacheSvc, zap.NewNop(), time.Minute, 10)
	actor := claimsFor(models.RoleAdmin)

	first, err := svc.Metrics(context.Background(), "", actor)
	require.NoError(t, err)
	second, err := svc.Metrics(context.Background(), "", actor)
	require.NoError(t, err)

	assert.Equal(t, first.ClosingBalance, second.ClosingBalance)
	assert.Equal(t, 1, queries.calls)
}

func TestDashboardMetrics_RequiresViewCapability(t *testing.T) {
	svc := NewDashboardService(&fakeDashboardQueries{}, &fakeAssetCounter{}, &fakeActivityFeed{}, nil, zap.NewNop(), time.Minute, 10)

	_, err := svc.Metrics(context.Background(), "", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
