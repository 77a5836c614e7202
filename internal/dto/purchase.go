package dto

import (
	"time"

	"github.com/vishalbharath/Military-Assest-Management/internal/models"
)

// CreatePurchaseRequest is the payload for submitting a procurement order.
// TotalAmount is intentionally absent; the service derives it.
type CreatePurchaseRequest struct {
	AssetType models.AssetType `json:"asset_type" validate:"required,oneof=WEAPON VEHICLE AMMUNITION EQUIPMENT"`
	AssetName string           `json:"asset_name" validate:"required"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64          `json:"unit_price" validate:"gte=0"`
	Supplier  string           `json:"supplier" validate:"required"`
	BaseID    string           `json:"base_id" validate:"required"`
	OrderDate *time.Time       `json:"order_date"`
	Notes     string           `json:"notes"`
}

// PurchaseQuery mirrors supported listing filters.
type PurchaseQuery struct {
	Status    []models.PurchaseStatus
	AssetType models.AssetType
	BaseID    string
	Limit     int
	Offset    int
}
