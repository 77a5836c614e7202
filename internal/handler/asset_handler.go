package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vishalbharath/Military-Assest-Management/internal/dto"
	"github.com/vishalbharath/Military-Assest-Management/internal/models"
	"github.com/vishalbharath/Military-Assest-Management/internal/service"
	appErrors "github.com/vishalbharath/Military-Assest-Management/pkg/errors"
	"github.com/vishalbharath/Military-Assest-Management/pkg/response"
)

// AssetHandler wires HTTP endpoints to the inventory register.
type AssetHandler struct {
	service *service.AssetService
}

// NewAssetHandler creates a new handler.
func NewAssetHandler(svc *service.AssetService) *AssetHandler {
	return &AssetHandler{service: svc}
}

// Create godoc
// @Summary Register asset
// @Tags Assets
// @Accept json
// @Produce json
// @Param payload body dto.CreateAssetRequest true "Asset payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /assets [post]
func (h *AssetHandler) Create(c *gin.Context) {
	var req dto.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid asset payload"))
		return
	}

	asset, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, asset)
}

// List godoc
// @Summary List assets
// @Tags Assets
// @Produce json
// @Param type query string false "Asset type"
// @Param status query string false "Asset status"
// @Param base_id query string false "Base ID"
// @Success 200 {object} response.Envelope
// @Router /assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	query := dto.AssetQuery{
		Type:   models.AssetType(c.Query("type")),
		Status: models.AssetStatus(c.Query("status")),
		BaseID: c.Query("base_id"),
		Limit:  intQuery(c, "limit"),
		Offset: intQuery(c, "offset"),
	}

	assets, err := h.service.List(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, assets, nil)
}

// Get godoc
// @Summary Get asset
// @Tags Assets
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assets/{id} [get]
func (h *AssetHandler) Get(c *gin.Context) {
	asset, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, asset, nil)
}
