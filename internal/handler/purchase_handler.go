package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vishalbharath/Military-Assest-Management/internal/dto"
	"github.com/vishalbharath/Military-Assest-Management/internal/models"
	"github.com/vishalbharath/Military-Assest-Management/internal/service"
	appErrors "github.com/vishalbharath/Military-Assest-Management/pkg/errors"
	"github.com/vishalbharath/Military-Assest-Management/pkg/response"
)

// PurchaseHandler wires HTTP endpoints to the purchase lifecycle service.
type PurchaseHandler struct {
	service *service.PurchaseService
}

// NewPurchaseHandler creates a new handler.
func NewPurchaseHandler(svc *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: svc}
}

// Create godoc
// @Summary Create purchase
// @Description Submit a procurement order in PENDING status
// @Tags Purchases
// @Accept json
// @Produce json
// @Param payload body dto.CreatePurchaseRequest true "Purchase payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid purchase payload"))
		return
	}

	purchase, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, purchase)
}

// List godoc
// @Summary List purchases
// @Description List purchases with optional status, asset type, and base filters
// @Tags Purchases
// @Produce json
// @Param status query string false "Comma-separated statuses"
// @Param asset_type query string false "Asset type"
// @Param base_id query string false "Base ID"
// @Success 200 {object} response.Envelope
// @Router /purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	query := dto.PurchaseQuery{
		AssetType: models.AssetType(c.Query("asset_type")),
		BaseID:    c.Query("base_id"),
		Limit:     intQuery(c, "limit"),
		Offset:    intQuery(c, "offset"),
	}
	for _, status := range splitQuery(c.Query("status")) {
		query.Status = append(query.Status, models.PurchaseStatus(status))
	}

	purchases, err := h.service.List(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, purchases, nil)
}

// Get godoc
// @Summary Get purchase
// @Tags Purchases
// @Produce json
// @Param id path string true "Purchase ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /purchases/{id} [get]
func (h *PurchaseHandler) Get(c *gin.Context) {
	purchase, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, purchase, nil)
}

// Approve godoc
// @Summary Approve purchase
// @Tags Purchases
// @Produce json
// @Param id path string true "Purchase ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /purchases/{id}/approve [post]
func (h *PurchaseHandler) Approve(c *gin.Context) {
	purchase, err := h.service.Approve(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, purchase, nil)
}

// Reject godoc
// @Summary Reject purchase
// @Tags Purchases
// @Produce json
// @Param id path string true "Purchase ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /purchases/{id}/reject [post]
func (h *PurchaseHandler) Reject(c *gin.Context) {
	purchase, err := h.service.Reject(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, purchase, nil)
}

// Deliver godoc
// @Summary Mark purchase delivered
// @Tags Purchases
// @Produce json
// @Param id path string true "Purchase ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /purchases/{id}/deliver [post]
func (h *PurchaseHandler) Deliver(c *gin.Context) {
	purchase, err := h.service.Deliver(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, purchase, nil)
}

func intQuery(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func splitQuery(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
