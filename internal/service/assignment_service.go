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

type assignmentStore interface {
	Create(ctx context.Context, assignment *models.Assignment, audit *models.AuditLog) error
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
	Transition(ctx context.Context, params repository.AssignmentTransitionParams, audit *models.AuditLog) error
}

// AssignmentService hands assets to personnel and records how each one comes
// back: returned, expended, or damaged. Every outcome is terminal.
type AssignmentService struct {
	repo      assignmentStore
	cache     projectionInvalidator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssignmentService constructs the service.
func NewAssignmentService(repo assignmentStore, cache projectionInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssignmentService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger, now: time.Now}
}

// Create inserts the assignment in ACTIVE with its creation audit entry.
func (s *AssignmentService) Create(ctx context.Context, req dto.CreateAssignmentRequest, actor *models.JWTClaims) (*models.Assignment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !lifecycle.CanCreate(lifecycle.KindAssignment, actor.Role) {
		return nil, appErrors.Clone(appErrors.ErrPermissionDenied, "asset management capability required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	assignment := &models.Assignment{
		AssetID:            req.AssetID,
		AssignedTo:         req.AssignedTo,
		AssignedBy:         actor.UserID,
		BaseID:             req.BaseID,
		ExpectedReturnDate: req.ExpectedReturnDate,
		Status:             models.AssignmentStatusActive,
		Purpose:            req.Purpose,
		Notes:              req.Notes,
	}

	audit := &models.AuditLog{
		Action:     lifecycle.CreationAction(lifecycle.KindAssignment),
		EntityType: models.EntityTypeAssignment,
		UserID:     actor.UserID,
		UserName:   actor.Name,
		Details: models.AuditDetails(map[string]interface{}{
			"assetId":    req.AssetID,
			"assignedTo": req.AssignedTo,
			"baseId":     req.BaseID,
			"purpose":    req.Purpose,
		}),
	}
	if err := s.repo.Create(ctx, assignment, audit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	s.metrics.RecordTransition(models.EntityTypeAssignment, audit.Action)
	s.invalidateProjections(ctx)
	return assignment, nil
}

// List returns assignments matching the query.
func (s *AssignmentService) List(ctx context.Context, query dto.AssignmentQuery, actor *models.JWTClaims) ([]models.Assignment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	assignments, err := s.repo.List(ctx, models.AssignmentFilter{
		Status:     query.Status,
		BaseID:     query.BaseID,
		AssignedTo: query.AssignedTo,
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// Get returns a single assignment.
func (s *AssignmentService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Assignment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

// Return closes an active assignment as RETURNED and stamps the return date.
func (s *AssignmentService) Return(ctx context.Context, id string, actor *models.JWTClaims) (*models.Assignment, error) {
	return s.transition(ctx, id, models.AssignmentStatusReturned, actor)
}

// Expend closes an active assignment as EXPENDED.
func (s *AssignmentService) Expend(ctx context.Context, id string, actor *models.JWTClaims) (*models.Assignment, error) {
	return s.transition(ctx, id, models.AssignmentStatusExpended, actor)
}

// Damage closes an active assignment as DAMAGED.
func (s *AssignmentService) Damage(ctx context.Context, id string, actor *models.JWTClaims) (*models.Assignment, error) {
	return s.transition(ctx, id, models.AssignmentStatusDamaged, actor)
}

func (s *AssignmentService) transition(ctx context.Context, id string, target models.AssignmentStatus, actor *models.JWTClaims) (*models.Assignment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	rule, ok := lifecycle.Edge(lifecycle.KindAssignment, string(assignment.Status), string(target))
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrIllegalTransition,
			fmt.Sprintf("assignment cannot move from %s to %s", assignment.Status, target))
	}
	if !actor.Can(rule.Permission) {
		return nil, appErrors.Clone(appErrors.ErrPermissionDenied,
			fmt.Sprintf("%s capability required", rule.Permission))
	}

	params := repository.AssignmentTransitionParams{
		ID:         assignment.ID,
		FromStatus: assignment.Status,
		ToStatus:   target,
	}
	if target == models.AssignmentStatusReturned {
		now := s.now().UTC()
		params.ActualReturnDate = &now
	}

	audit := &models.AuditLog{
		Action:     rule.Action,
		EntityType: models.EntityTypeAssignment,
		EntityID:   assignment.ID,
		UserID:     actor.UserID,
		UserName:   actor.Name,
		Details: models.AuditDetails(map[string]interface{}{
			"from":    string(assignment.Status),
			"to":      string(target),
			"assetId": assignment.AssetID,
		}),
	}
	if err := s.repo.Transition(ctx, params, audit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrIllegalTransition, "assignment already closed")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}

	s.metrics.RecordTransition(models.EntityTypeAssignment, rule.Action)
	assignment.Status = target
	if params.ActualReturnDate != nil {
		assignment.ActualReturnDate = params.ActualReturnDate
	}
	s.invalidateProjections(ctx)
	return assignment, nil
}

func (s *AssignmentService) invalidateProjections(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "dash:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
