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

// AssignmentHandler wires HTTP endpoints to the assignment lifecycle service.
type AssignmentHandler struct {
	service *service.AssignmentService
}

// NewAssignmentHandler creates a new handler.
func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// Create godoc
// @Summary Assign asset
// @Description Hand an asset to personnel; the assignment starts ACTIVE
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	assignment, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, assignment)
}

// List godoc
// @Summary List assignments
// @Tags Assignments
// @Produce json
// @Param status query string false "Comma-separated statuses"
// @Param base_id query string false "Base ID"
// @Param assigned_to query string false "Assignee"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	query := dto.AssignmentQuery{
		BaseID:     c.Query("base_id"),
		AssignedTo: c.Query("assigned_to"),
		Limit:      intQuery(c, "limit"),
		Offset:     intQuery(c, "offset"),
	}
	for _, status := range splitQuery(c.Query("status")) {
		query.Status = append(query.Status, models.AssignmentStatus(status))
	}

	assignments, err := h.service.List(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, assignments, nil)
}

// Get godoc
// @Summary Get assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, assignment, nil)
}

// Return godoc
// @Summary Return assigned asset
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments/{id}/return [post]
func (h *AssignmentHandler) Return(c *gin.Context) {
	assignment, err := h.service.Return(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, assignment, nil)
}

// Expend godoc
// @Summary Mark assigned asset expended
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments/{id}/expend [post]
func (h *AssignmentHandler) Expend(c *gin.Context) {
	assignment, err := h.service.Expend(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, assignment, nil)
}

// Damage godoc
// @Summary Mark assigned asset damaged
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments/{id}/damage [post]
func (h *AssignmentHandler) Damage(c *gin.Context) {
	assignment, err := h.service.Damage(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, assignment, nil)
}
