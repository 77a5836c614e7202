package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vishalbharath/Military-Assest-Management/internal/service"
	"github.com/vishalbharath/Military-Assest-Management/pkg/response"
)

// DashboardHandler exposes the console landing-view projection.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Metrics godoc
// @Summary Dashboard metrics
// @Description Inventory balances, movement, and recent activity
// @Tags Dashboard
// @Produce json
// @Param base_id query string false "Restrict to a single base"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /dashboard/metrics [get]
func (h *DashboardHandler) Metrics(c *gin.Context) {
	metrics, err := h.service.Metrics(c.Request.Context(), c.Query("base_id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, metrics, nil)
}
