package models

import "time"

// PurchaseStatus captures workflow states for procurement orders.
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "PENDING"
	PurchaseStatusApproved  PurchaseStatus = "APPROVED"
	PurchaseStatusRejected  PurchaseStatus = "REJECTED"
	PurchaseStatusDelivered PurchaseStatus = "DELIVERED"
)

// Purchase is a procurement order for a quantity of assets. TotalAmount is
// always recomputed from Quantity and UnitPrice, never set directly.
type Purchase struct {
	ID           string         `db:"id" json:"id"`
	AssetType    AssetType      `db:"asset_type" json:"asset_type"`
	AssetName    string         `db:"asset_name" json:"asset_name"`
	Quantity     int            `db:"quantity" json:"quantity"`
	UnitPrice    float64        `db:"unit_price" json:"unit_price"`
	TotalAmount  float64        `db:"total_amount" json:"total_amount"`
	Supplier     string         `db:"supplier" json:"supplier"`
	BaseID       string         `db:"base_id" json:"base_id"`
	PurchasedBy  string         `db:"purchased_by" json:"purchased_by"`
	ApprovedBy   *string        `db:"approved_by" json:"approved_by,omitempty"`
	Status       PurchaseStatus `db:"status" json:"status"`
	OrderDate    time.Time      `db:"order_date" json:"order_date"`
	DeliveryDate *time.Time     `db:"delivery_date" json:"delivery_date,omitempty"`
	Notes        string         `db:"notes" json:"notes"`
}

// PurchaseFilter constrains purchase listing queries.
type PurchaseFilter struct {
	Status    []PurchaseStatus
	AssetType AssetType
	BaseID    string
	Limit     int
	Offset    int
}
