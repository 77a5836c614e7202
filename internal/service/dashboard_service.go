package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vishalbharath/Military-Assest-Management/internal/dto"
	"github.com/vishalbharath/Military-Assest-Management/internal/models"
	"github.com/vishalbharath/Military-Assest-Management/internal/repository"
	appErrors "github.com/vishalbharath/Military-Assest-Management/pkg/errors"
)

type dashboardQueries interface {
	AssetsOnHand(ctx context.Context, baseID string) (int, error)
	DeliveredPurchaseQuantity(ctx context.Context, baseID string) (int, error)
	CompletedTransferQuantities(ctx context.Context, baseID string) (repository.TransferMovement, error)
	AssignmentCounts(ctx context.Context, baseID string) (repository.AssignmentTotals, error)
}

type assetCounter interface {
	CountByType(ctx context.Context, baseID string) ([]repository.AssetTypeCount, error)
}

type activityFeed interface {
	Recent(ctx context.Context, n int) ([]models.AuditLog, error)
}

// DashboardService assembles the console landing-view projection from the
// entity stores. Balances derive from committed state only: closing balance
// counts every asset not expended, net movement is deliveries plus transfers
// in minus transfers out minus expenditures, and opening balance is whatever
// remains after backing the movement out.
type DashboardService struct {
	repo        dashboardQueries
	assets      assetCounter
	audit       activityFeed
	cache       *CacheService
	logger      *zap.Logger
	cacheTTL    time.Duration
	recentLimit int
}

// NewDashboardService constructs the service.
func NewDashboardService(repo dashboardQueries, assets assetCounter, audit activityFeed, cache *CacheService, logger *zap.Logger, cacheTTL time.Duration, recentLimit int) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recentLimit <= 0 {
		recentLimit = 10
	}
	return &DashboardService{
		repo:        repo,
		assets:      assets,
		audit:       audit,
		cache:       cache,
		logger:      logger,
		cacheTTL:    cacheTTL,
		recentLimit: recentLimit,
	}
}

// Metrics computes the dashboard projection, serving from cache when a fresh
// copy exists. An empty baseID aggregates across all bases.
func (s *DashboardService) Metrics(ctx context.Context, baseID string, actor *models.JWTClaims) (*dto.DashboardMetricsResponse, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Can(models.PermViewAll) && !actor.Can(models.PermViewBase) {
		return nil, appErrors.Clone(appErrors.ErrPermissionDenied, "view_base capability required")
	}

	key := s.cacheKey(baseID)
	if s.cache.Enabled() {
		var cached dto.DashboardMetricsResponse
		hit, err := s.cache.Get(ctx, key, &cached)
		if err == nil && hit {
			return &cached, nil
		}
	}

	onHand, err := s.repo.AssetsOnHand(ctx, baseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count assets")
	}
	delivered, err := s.repo.DeliveredPurchaseQuantity(ctx, baseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum deliveries")
	}
	movement, err := s.repo.CompletedTransferQuantities(ctx, baseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum transfers")
	}
	assignments, err := s.repo.AssignmentCounts(ctx, baseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count assignments")
	}
	byType, err := s.assets.CountByType(ctx, baseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to group assets")
	}
	recent, err := s.audit.Recent(ctx, s.recentLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent activity")
	}

	netMovement := delivered + movement.In - movement.Out - assignments.Expended
	resp := &dto.DashboardMetricsResponse{
		OpeningBalance: onHand - netMovement,
		ClosingBalance: onHand,
		NetMovement:    netMovement,
		TotalAssigned:  assignments.Active,
		TotalExpended:  assignments.Expended,
		AssetsByType:   make([]dto.AssetTypeMetric, 0, len(byType)),
		RecentActivity: recent,
	}
	for _, c := range byType {
		resp.AssetsByType = append(resp.AssetsByType, dto.AssetTypeMetric{
			Type:        c.Type,
			Count:       c.Count,
			Available:   c.Available,
			Assigned:    c.Assigned,
			Maintenance: c.Maintenance,
			Expended:    c.Expended,
		})
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard metrics", zap.Error(err))
		}
	}
	return resp, nil
}

func (s *DashboardService) cacheKey(baseID string) string {
	if baseID == "" {
		return "dash:metrics:all"
	}
	return fmt.Sprintf("dash:metrics:%s", baseID)
}
