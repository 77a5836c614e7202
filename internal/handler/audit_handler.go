package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vishalbharath/Military-Assest-Management/internal/models"
	"github.com/vishalbharath/Military-Assest-Management/internal/service"
	"github.com/vishalbharath/Military-Assest-Management/pkg/response"
)

// AuditHandler exposes the audit trail.
type AuditHandler struct {
	service *service.AuditService
}

// NewAuditHandler creates a new handler.
func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

// List godoc
// @Summary List audit logs
// @Description Audit entries newest first with optional filters
// @Tags Audit
// @Produce json
// @Param action query string false "Action"
// @Param entity_type query string false "Entity type"
// @Param entity_id query string false "Entity ID"
// @Param user_id query string false "Acting user"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	filter := models.AuditFilter{
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		UserID:     c.Query("user_id"),
		Limit:      intQuery(c, "limit"),
		Offset:     intQuery(c, "offset"),
	}

	logs, err := h.service.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, logs, nil)
}
