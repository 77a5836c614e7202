package models

import (
	"encoding/json"
	"time"
)

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin              = "LOGIN"
	AuditActionLogout             = "LOGOUT"
	AuditActionPurchaseCreated    = "PURCHASE_CREATED"
	AuditActionPurchaseApproved   = "PURCHASE_APPROVED"
	AuditActionPurchaseRejected   = "PURCHASE_REJECTED"
	AuditActionPurchaseDelivered  = "PURCHASE_DELIVERED"
	AuditActionTransferCreated    = "TRANSFER_CREATED"
	AuditActionTransferApproved   = "TRANSFER_APPROVED"
	AuditActionTransferRejected   = "TRANSFER_REJECTED"
	AuditActionTransferDispatched = "TRANSFER_DISPATCHED"
	AuditActionTransferCompleted  = "TRANSFER_COMPLETED"
	AuditActionAssetAssigned      = "ASSET_ASSIGNED"
	AuditActionAssetReturned      = "ASSET_RETURNED"
	AuditActionAssetExpended      = "ASSET_EXPENDED"
	AuditActionAssetDamaged       = "ASSET_DAMAGED"
)

// EntityType labels which store an audit entry refers to.
const (
	EntityTypePurchase   = "PURCHASE"
	EntityTypeTransfer   = "TRANSFER"
	EntityTypeAssignment = "ASSIGNMENT"
	EntityTypeAuth       = "AUTH"
)

// AuditLog is an append-only audit trail record. Entries are never updated or
// deleted once written; Seq is assigned by the store and strictly increasing.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	Seq        int64     `db:"seq" json:"seq"`
	Action     string    `db:"action" json:"action"`
	EntityType string    `db:"entity_type" json:"entity_type"`
	EntityID   string    `db:"entity_id" json:"entity_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	UserName   string    `db:"user_name" json:"user_name"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
	Details    []byte    `db:"details" json:"details,omitempty"`
}

// AuditFilter constrains audit trail queries.
type AuditFilter struct {
	Action     string
	EntityType string
	EntityID   string
	UserID     string
	Limit      int
	Offset     int
}

// AuditDetails marshals a detail map for storage. Marshal failures degrade to
// an empty object rather than blocking the committing transaction.
func AuditDetails(details map[string]interface{}) []byte {
	if len(details) == 0 {
		return []byte("{}")
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return []byte("{}")
	}
	return raw
}
