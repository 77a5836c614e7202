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

// TransferHandler wires HTTP endpoints to the transfer lifecycle service.
type TransferHandler struct {
	service *service.TransferService
}

// NewTransferHandler creates a new handler.
func NewTransferHandler(svc *service.TransferService) *TransferHandler {
	return &TransferHandler{service: svc}
}

// Create godoc
// @Summary Create transfer
// @Description Request an inter-base transfer in PENDING status
// @Tags Transfers
// @Accept json
// @Produce json
// @Param payload body dto.CreateTransferRequest true "Transfer payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /transfers [post]
func (h *TransferHandler) Create(c *gin.Context) {
	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid transfer payload"))
		return
	}

	transfer, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, transfer)
}

// List godoc
// @Summary List transfers
// @Tags Transfers
// @Produce json
// @Param status query string false "Comma-separated statuses"
// @Param from_base_id query string false "Origin base"
// @Param to_base_id query string false "Destination base"
// @Success 200 {object} response.Envelope
// @Router /transfers [get]
func (h *TransferHandler) List(c *gin.Context) {
	query := dto.TransferQuery{
		FromBaseID: c.Query("from_base_id"),
		ToBaseID:   c.Query("to_base_id"),
		Limit:      intQuery(c, "limit"),
		Offset:     intQuery(c, "offset"),
	}
	for _, status := range splitQuery(c.Query("status")) {
		query.Status = append(query.Status, models.TransferStatus(status))
	}

	transfers, err := h.service.List(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, transfers, nil)
}

// Get godoc
// @Summary Get transfer
// @Tags Transfers
// @Produce json
// @Param id path string true "Transfer ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /transfers/{id} [get]
func (h *TransferHandler) Get(c *gin.Context) {
	transfer, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, transfer, nil)
}

// Approve godoc
// @Summary Approve transfer
// @Tags Transfers
// @Produce json
// @Param id path string true "Transfer ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *gin.Context) {
	transfer, err := h.service.Approve(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, transfer, nil)
}

// Reject godoc
// @Summary Reject transfer
// @Tags Transfers
// @Produce json
// @Param id path string true "Transfer ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *gin.Context) {
	transfer, err := h.service.Reject(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, transfer, nil)
}

// Dispatch godoc
// @Summary Dispatch transfer
// @Description Mark an approved transfer as IN_TRANSIT
// @Tags Transfers
// @Produce json
// @Param id path string true "Transfer ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /transfers/{id}/dispatch [post]
func (h *TransferHandler) Dispatch(c *gin.Context) {
	transfer, err := h.service.Dispatch(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, transfer, nil)
}

// Complete godoc
// @Summary Complete transfer
// @Description Mark an in-transit transfer as COMPLETED
// @Tags Transfers
// @Produce json
// @Param id path string true "Transfer ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /transfers/{id}/complete [post]
func (h *TransferHandler) Complete(c *gin.Context) {
	transfer, err := h.service.Complete(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, transfer, nil)
}
