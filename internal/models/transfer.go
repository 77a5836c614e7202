package models

import "time"

// TransferStatus captures workflow states for inter-base transfers.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "PENDING"
	TransferStatusApproved  TransferStatus = "APPROVED"
	TransferStatusInTransit TransferStatus = "IN_TRANSIT"
	TransferStatusCompleted TransferStatus = "COMPLETED"
	TransferStatusRejected  TransferStatus = "REJECTED"
)

// Transfer moves a quantity of an asset between two distinct bases.
type Transfer struct {
	ID             string         `db:"id" json:"id"`
	AssetID        string         `db:"asset_id" json:"asset_id"`
	FromBaseID     string         `db:"from_base_id" json:"from_base_id"`
	ToBaseID       string         `db:"to_base_id" json:"to_base_id"`
	Quantity       int            `db:"quantity" json:"quantity"`
	RequestedBy    string         `db:"requested_by" json:"requested_by"`
	ApprovedBy     *string        `db:"approved_by" json:"approved_by,omitempty"`
	Status         TransferStatus `db:"status" json:"status"`
	RequestDate    time.Time      `db:"request_date" json:"request_date"`
	ApprovalDate   *time.Time     `db:"approval_date" json:"approval_date,omitempty"`
	CompletionDate *time.Time     `db:"completion_date" json:"completion_date,omitempty"`
	Notes          string         `db:"notes" json:"notes"`
}

// TransferFilter constrains transfer listing queries.
type TransferFilter struct {
	Status     []TransferStatus
	FromBaseID string
	ToBaseID   string
	Limit      int
	Offset     int
}
