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

type transferStore interface {
	Create(ctx context.Context, transfer *models.Transfer, audit *models.AuditLog) error
	GetByID(ctx context.Context, id string) (*models.Transfer, error)
	List(ctx context.Context, filter models.TransferFilter) ([]models.Transfer, error)
	Transition(ctx context.Context, params repository.TransferTransitionParams, audit *models.AuditLog) error
}

// TransferService runs inter-base movements: creation in PENDING, approval,
// dispatch, completion, or rejection.
type TransferService struct {
	repo      transferStore
	cache     projectionInvalidator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewTransferService constructs the service.
func NewTransferService(repo transferStore, cache projectionInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *TransferService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TransferService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger, now: time.Now}
}

// Create validates the route and inserts the transfer in PENDING. A transfer
// whose origin and destination base coincide is rejected before any write.
func (s *TransferService) Create(ctx context.Context, req dto.CreateTransferRequest, actor *models.JWTClaims) (*models.Transfer, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !lifecycle.CanCreate(lifecycle.KindTransfer, actor.Role) {
		return nil, appErrors.Clone(appErrors.ErrPermissionDenied, "create_transfers capability required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transfer payload")
	}
	if req.FromBaseID == req.ToBaseID {
		return nil, appErrors.ErrInvalidRoute
	}

	transfer := &models.Transfer{
		AssetID:     req.AssetID,
		FromBaseID:  req.FromBaseID,
		ToBaseID:    req.ToBaseID,
		Quantity:    req.Quantity,
		RequestedBy: actor.UserID,
		Status:      models.TransferStatusPending,
		Notes:       req.Notes,
	}

	audit := &models.AuditLog{
		Action:     lifecycle.CreationAction(lifecycle.KindTransfer),
		EntityType: models.EntityTypeTransfer,
		UserID:     actor.UserID,
		UserName:   actor.Name,
		Details: models.AuditDetails(map[string]interface{}{
			"assetId":    req.AssetID,
			"quantity":   req.Quantity,
			"fromBaseId": req.FromBaseID,
			"toBaseId":   req.ToBaseID,
		}),
	}
	if err := s.repo.Create(ctx, transfer, audit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create transfer")
	}
	s.metrics.RecordTransition(models.EntityTypeTransfer, audit.Action)
	s.invalidateProjections(ctx)
	return transfer, nil
}

// List returns transfers matching the query.
func (s *TransferService) List(ctx context.Context, query dto.TransferQuery, actor *models.JWTClaims) ([]models.Transfer, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	transfers, err := s.repo.List(ctx, models.TransferFilter{
		Status:     query.Status,
		FromBaseID: query.FromBaseID,
		ToBaseID:   query.ToBaseID,
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list transfers")
	}
	return transfers, nil
}

// Get returns a single transfer.
func (s *TransferService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Transfer, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	transfer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load transfer")
	}
	return transfer, nil
}

// Approve moves a pending transfer to APPROVED and stamps the approver.
func (s *TransferService) Approve(ctx context.Context, id string, actor *models.JWTClaims) (*models.Transfer, error) {
	return s.transition(ctx, id, models.TransferStatusApproved, actor)
}

// Reject moves a pending transfer to REJECTED.
func (s *TransferService) Reject(ctx context.Context, id string, actor *models.JWTClaims) (*models.Transfer, error) {
	return s.transition(ctx, id, models.TransferStatusRejected, actor)
}

// Dispatch moves an approved transfer to IN_TRANSIT.
func (s *TransferService) Dispatch(ctx context.Context, id string, actor *models.JWTClaims) (*models.Transfer, error) {
	return s.transition(ctx, id, models.TransferStatusInTransit, actor)
}

// Complete moves an in-transit transfer to COMPLETED and stamps completion.
func (s *TransferService) Complete(ctx context.Context, id string, actor *models.JWTClaims) (*models.Transfer, error) {
	return s.transition(ctx, id, models.TransferStatusCompleted, actor)
}

func (s *TransferService) transition(ctx context.Context, id string, target models.TransferStatus, actor *models.JWTClaims) (*models.Transfer, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	transfer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load transfer")
	}

	rule, ok := lifecycle.Edge(lifecycle.KindTransfer, string(transfer.Status), string(target))
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrIllegalTransition,
			fmt.Sprintf("transfer cannot move from %s to %s", transfer.Status, target))
	}
	if !actor.Can(rule.Permission) {
		return nil, appErrors.Clone(appErrors.ErrPermissionDenied,
			fmt.Sprintf("%s capability required", rule.Permission))
	}

	params := repository.TransferTransitionParams{
		ID:         transfer.ID,
		FromStatus: transfer.Status,
		ToStatus:   target,
	}
	now := s.now().UTC()
	switch target {
	case models.TransferStatusApproved:
		params.ApprovedBy = &actor.UserID
		params.ApprovalDate = &now
	case models.TransferStatusRejected:
		params.ApprovedBy = &actor.UserID
	case models.TransferStatusCompleted:
		params.CompletionDate = &now
	}

	audit := &models.AuditLog{
		Action:     rule.Action,
		EntityType: models.EntityTypeTransfer,
		EntityID:   transfer.ID,
		UserID:     actor.UserID,
		UserName:   actor.Name,
		Details: models.AuditDetails(map[string]interface{}{
			"from": string(transfer.Status),
			"to":   string(target),
		}),
	}
	if err := s.repo.Transition(ctx, params, audit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrIllegalTransition, "transfer already processed")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update transfer")
	}

	s.metrics.RecordTransition(models.EntityTypeTransfer, rule.Action)
	transfer.Status = target
	if params.ApprovedBy != nil {
		transfer.ApprovedBy = params.ApprovedBy
	}
	if params.ApprovalDate != nil {
		transfer.ApprovalDate = params.ApprovalDate
	}
	if params.CompletionDate != nil {
		transfer.CompletionDate = params.CompletionDate
	}
	s.invalidateProjections(ctx)
	return transfer, nil
}

func (s *TransferService) invalidateProjections(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "dash:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
