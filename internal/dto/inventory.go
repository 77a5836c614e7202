package dto

import "github.com/vishalbharath/Military-Assest-Management/internal/models"

// CreateAssetRequest registers a physical asset with a base.
type CreateAssetRequest struct {
	Name         string           `json:"name" validate:"required"`
	Type         models.AssetType `json:"type" validate:"required,oneof=WEAPON VEHICLE AMMUNITION EQUIPMENT"`
	SerialNumber string           `json:"serial_number" validate:"required"`
	BaseID       string           `json:"base_id" validate:"required"`
}

// AssetQuery mirrors supported listing filters.
type AssetQuery struct {
	Type   models.AssetType
	Status models.AssetStatus
	BaseID string
	Limit  int
	Offset int
}

// CreateBaseRequest registers a new installation.
type CreateBaseRequest struct {
	Name        string  `json:"name" validate:"required"`
	Location    string  `json:"location" validate:"required"`
	CommanderID *string `json:"commander_id"`
}
