package dto

import (
	"time"

	"github.com/vishalbharath/Military-Assest-Management/internal/models"
)

// CreateAssignmentRequest is the payload for assigning an asset to personnel.
type CreateAssignmentRequest struct {
	AssetID            string     `json:"asset_id" validate:"required"`
	AssignedTo         string     `json:"assigned_to" validate:"required"`
	BaseID             string     `json:"base_id" validate:"required"`
	Purpose            string     `json:"purpose" validate:"required"`
	ExpectedReturnDate *time.Time `json:"expected_return_date"`
	Notes              string     `json:"notes"`
}

// AssignmentQuery mirrors supported listing filters.
type AssignmentQuery struct {
	Status     []models.AssignmentStatus
	BaseID     string
	AssignedTo string
	Limit      int
	Offset     int
}
