package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vishalbharath/Military-Assest-Management/internal/dto"
	"github.com/vishalbharath/Military-Assest-Management/internal/models"
	appErrors "github.com/vishalbharath/Military-Assest-Management/pkg/errors"
)

type baseStore interface {
	GetByID(ctx context.Context, id string) (*models.Base, error)
	List(ctx context.Context) ([]models.Base, error)
	Create(ctx context.Context, base *models.Base) error
}

// BaseService manages the installation register.
type BaseService struct {
	repo      baseStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBaseService constructs the service.
func NewBaseService(repo baseStore, validate *validator.Validate, logger *zap.Logger) *BaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BaseService{repo: repo, validator: validate, logger: logger}
}

// List returns every registered base.
func (s *BaseService) List(ctx context.Context, actor *models.JWTClaims) ([]models.Base, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	bases, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bases")
	}
	return bases, nil
}

// Get returns a single base.
func (s *BaseService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Base, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	base, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load base")
	}
	return base, nil
}

// Create registers a new base.
func (s *BaseService) Create(ctx context.Context, req dto.CreateBaseRequest, actor *models.JWTClaims) (*models.Base, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Can(models.PermManageBases) {
		return nil, appErrors.Clone(appErrors.ErrPermissionDenied, "manage_bases capability required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid base payload")
	}

	base := &models.Base{
		Name:        req.Name,
		Location:    req.Location,
		CommanderID: req.CommanderID,
		Active:      true,
	}
	if err := s.repo.Create(ctx, base); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create base")
	}
	return base, nil
}
