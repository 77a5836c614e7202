package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vishalbharath/Military-Assest-Management/internal/dto"
	"github.com/vishalbharath/Military-Assest-Management/internal/lifecycle"
	"github.com/vishalbharath/Military-Assest-Management/internal/models"
	"github.com/vishalbharath/Military-Assest-Management/internal/repository"
	appErrors "github.com/vishalbharath/Military-Assest-Management/pkg/errors"
)

type purchaseStore interface {
	Create(ctx context.Context, purchase *models.Purchase, audit *models.AuditLog) error
	GetByID(ctx context.Context, id string) (*models.Purchase, error)
	List(ctx context.Context, filter models.PurchaseFilter) ([]models.Purchase, error)
	Transition(ctx context.Context, params repository.PurchaseTransitionParams, audit *models.AuditLog) error
}

type projectionInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// PurchaseService runs the procurement lifecycle: creation in PENDING, then
// approval, rejection, or delivery along the legal edges.
type PurchaseService struct {
	repo      purchaseStore
	cache     projectionInvalidator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewPurchaseService constructs the service.
func NewPurchaseService(repo purchaseStore, cache projectionInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PurchaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PurchaseService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger, now: time.Now}
}

// Create validates the draft, derives the total amount, and inserts the
// purchase in PENDING together with its creation audit entry.
func (s *PurchaseService) Create(ctx context.Context, req dto.CreatePurchaseRequest, actor *models.JWTClaims) (*models.Purchase, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !lifecycle.CanCreate(lifecycle.KindPurchase, actor.Role) {
		return nil, appErrors.Clone(appErrors.ErrPermissionDenied, "create_purchases capability required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid purchase payload")
	}

	purchase := &models.Purchase{
		AssetType:   req.AssetType,
		AssetName:   req.AssetName,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		TotalAmount: float64(req.Quantity) * req.UnitPrice,
		Supplier:    req.Supplier,
		BaseID:      req.BaseID,
		PurchasedBy: actor.UserID,
		Status:      models.PurchaseStatusPending,
		Notes:       req.Notes,
	}
	if req.OrderDate != nil {
		purchase.OrderDate = req.OrderDate.UTC()
	}

	audit := &models.AuditLog{
		Action:     lifecycle.CreationAction(lifecycle.KindPurchase),
		EntityType: models.EntityTypePurchase,
		UserID:     actor.UserID,
		UserName:   actor.Name,
		Details: models.AuditDetails(map[string]interface{}{
			"assetName":   req.AssetName,
			"quantity":    req.Quantity,
			"totalAmount": purchase.TotalAmount,
			"baseId":      req.BaseID,
		}),
	}
	if err := s.repo.Create(ctx, purchase, audit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create purchase")
	}
	s.metrics.RecordTransition(models.EntityTypePurchase, audit.Action)
	s.invalidateProjections(ctx)
	return purchase, nil
}

// List returns purchases matching the query.
func (s *PurchaseService) List(ctx context.Context, query dto.PurchaseQuery, actor *models.JWTClaims) ([]models.Purchase, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	purchases, err := s.repo.List(ctx, models.PurchaseFilter{
		Status:    query.Status,
		AssetType: query.AssetType,
		BaseID:    query.BaseID,
		Limit:     query.Limit,
		Offset:    query.Offset,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list purchases")
	}
	return purchases, nil
}

// Get returns a single purchase.
func (s *PurchaseService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Purchase, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	purchase, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load purchase")
	}
	return purchase, nil
}

// Approve moves a pending purchase to APPROVED.
func (s *PurchaseService) Approve(ctx context.Context, id string, actor *models.JWTClaims) (*models.Purchase, error) {
	return s.transition(ctx, id, models.PurchaseStatusApproved, actor)
}

// Reject moves a pending purchase to REJECTED.
func (s *PurchaseService) Reject(ctx context.Context, id string, actor *models.JWTClaims) (*models.Purchase, error) {
	return s.transition(ctx, id, models.PurchaseStatusRejected, actor)
}

// Deliver moves an approved purchase to DELIVERED and stamps the delivery date.
func (s *PurchaseService) Deliver(ctx context.Context, id string, actor *models.JWTClaims) (*models.Purchase, error) {
	return s.transition(ctx, id, models.PurchaseStatusDelivered, actor)
}

func (s *PurchaseService) transition(ctx context.Context, id string, target models.PurchaseStatus, actor *models.JWTClaims) (*models.Purchase, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	purchase, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load purchase")
	}

	rule, ok := lifecycle.Edge(lifecycle.KindPurchase, string(purchase.Status), string(target))
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrIllegalTransition,
			fmt.Sprintf("purchase cannot move from %s to %s", purchase.Status, target))
	}
	if !actor.Can(rule.Permission) {
		return nil, appErrors.Clone(appErrors.ErrPermissionDenied,
			fmt.Sprintf("%s capability required", rule.Permission))
	}

	params := repository.PurchaseTransitionParams{
		ID:         purchase.ID,
		FromStatus: purchase.Status,
		ToStatus:   target,
	}
	now := s.now().UTC()
	switch target {
	case models.PurchaseStatusApproved, models.PurchaseStatusRejected:
		params.ApprovedBy = &actor.UserID
	case models.PurchaseStatusDelivered:
		params.DeliveryDate = &now
	}

	audit := &models.AuditLog{
		Action:     rule.Action,
		EntityType: models.EntityTypePurchase,
		EntityID:   purchase.ID,
		UserID:     actor.UserID,
		UserName:   actor.Name,
		Details: models.AuditDetails(map[string]interface{}{
			"from": string(purchase.Status),
			"to":   string(target),
		}),
	}
	if err := s.repo.Transition(ctx, params, audit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrIllegalTransition, "purchase already processed")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update purchase")
	}

	s.metrics.RecordTransition(models.EntityTypePurchase, rule.Action)
	purchase.Status = target
	if params.ApprovedBy != nil {
		purchase.ApprovedBy = params.ApprovedBy
	}
	if params.DeliveryDate != nil {
		purchase.DeliveryDate = params.DeliveryDate
	}
	s.invalidateProjections(ctx)
	return purchase, nil
}

func (s *PurchaseService) invalidateProjections(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "dash:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
