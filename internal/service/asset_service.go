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

type assetStore interface {
	GetByID(ctx context.Context, id string) (*models.Asset, error)
	List(ctx context.Context, filter models.AssetFilter) ([]models.Asset, error)
	Create(ctx context.Context, asset *models.Asset) error
}

// AssetService manages the physical inventory register.
type AssetService struct {
	repo      assetStore
	cache     projectionInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssetService constructs the service.
func NewAssetService(repo assetStore, cache projectionInvalidator, validate *validator.Validate, logger *zap.Logger) *AssetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssetService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns assets matching the query.
func (s *AssetService) List(ctx context.Context, query dto.AssetQuery, actor *models.JWTClaims) ([]models.Asset, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	assets, err := s.repo.List(ctx, models.AssetFilter{
		Type:   query.Type,
		Status: query.Status,
		BaseID: query.BaseID,
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assets")
	}
	return assets, nil
}

// Get returns a single asset.
func (s *AssetService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Asset, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load asset")
	}
	return asset, nil
}

// Create registers a new asset as AVAILABLE.
func (s *AssetService) Create(ctx context.Context, req dto.CreateAssetRequest, actor *models.JWTClaims) (*models.Asset, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Can(models.PermManageAssets) {
		return nil, appErrors.Clone(appErrors.ErrPermissionDenied, "manage_assets capability required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid asset payload")
	}

	asset := &models.Asset{
		Name:         req.Name,
		Type:         req.Type,
		SerialNumber: req.SerialNumber,
		BaseID:       req.BaseID,
		Status:       models.AssetStatusAvailable,
	}
	if err := s.repo.Create(ctx, asset); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create asset")
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "dash:*"); err != nil {
			s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
		}
	}
	return asset, nil
}
