package dto

import "github.com/vishalbharath/Military-Assest-Management/internal/models"

// CreateTransferRequest is the payload for requesting an inter-base transfer.
type CreateTransferRequest struct {
	AssetID    string `json:"asset_id" validate:"required"`
	FromBaseID string `json:"from_base_id" validate:"required"`
	ToBaseID   string `json:"to_base_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
	Notes      string `json:"notes"`
}

// TransferQuery mirrors supported listing filters.
type TransferQuery struct {
	Status     []models.TransferStatus
	FromBaseID string
	ToBaseID   string
	Limit      int
	Offset     int
}
