package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vishalbharath/Military-Assest-Management/internal/dto"
	"github.com/vishalbharath/Military-Assest-Management/internal/service"
	appErrors "github.com/vishalbharath/Military-Assest-Management/pkg/errors"
	"github.com/vishalbharath/Military-Assest-Management/pkg/response"
)

// BaseHandler wires HTTP endpoints to the installation register.
type BaseHandler struct {
	service *service.BaseService
}

// NewBaseHandler creates a new handler.
func NewBaseHandler(svc *service.BaseService) *BaseHandler {
	return &BaseHandler{service: svc}
}

// Create godoc
// @Summary Register base
// @Tags Bases
// @Accept json
// @Produce json
// @Param payload body dto.CreateBaseRequest true "Base payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /bases [post]
func (h *BaseHandler) Create(c *gin.Context) {
	var req dto.CreateBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid base payload"))
		return
	}

	base, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, base)
}

// List godoc
// @Summary List bases
// @Tags Bases
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /bases [get]
func (h *BaseHandler) List(c *gin.Context) {
	bases, err := h.service.List(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, bases, nil)
}

// Get godoc
// @Summary Get base
// @Tags Bases
// @Produce json
// @Param id path string true "Base ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /bases/{id} [get]
func (h *BaseHandler) Get(c *gin.Context) {
	base, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, base, nil)
}
