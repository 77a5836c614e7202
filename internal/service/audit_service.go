package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/vishalbharath/Military-Assest-Management/internal/models"
	appErrors "github.com/vishalbharath/Military-Assest-Management/pkg/errors"
)

type auditStore interface {
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
}

// AuditService exposes the audit trail for review. The trail itself is
// written by the lifecycle services; nothing here mutates it.
type AuditService struct {
	repo   auditStore
	logger *zap.Logger
}

// NewAuditService constructs the service.
func NewAuditService(repo auditStore, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// List returns audit entries matching the filter, newest first.
func (s *AuditService) List(ctx context.Context, filter models.AuditFilter, actor *models.JWTClaims) ([]models.AuditLog, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Can(models.PermViewAll) && !actor.Can(models.PermViewBase) {
		return nil, appErrors.Clone(appErrors.ErrPermissionDenied, "view_base capability required")
	}
	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	return logs, nil
}
