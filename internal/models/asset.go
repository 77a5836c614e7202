package models

import "time"

// AssetType enumerates tracked asset categories.
type AssetType string

const (
	AssetTypeWeapon     AssetType = "WEAPON"
	AssetTypeVehicle    AssetType = "VEHICLE"
	AssetTypeAmmunition AssetType = "AMMUNITION"
	AssetTypeEquipment  AssetType = "EQUIPMENT"
)

// AssetStatus enumerates inventory states of an individual asset.
type AssetStatus string

const (
	AssetStatusAvailable   AssetStatus = "AVAILABLE"
	AssetStatusAssigned    AssetStatus = "ASSIGNED"
	AssetStatusMaintenance AssetStatus = "MAINTENANCE"
	AssetStatusExpended    AssetStatus = "EXPENDED"
)

// Asset is a physical inventory item held by a base.
type Asset struct {
	ID           string      `db:"id" json:"id"`
	Name         string      `db:"name" json:"name"`
	Type         AssetType   `db:"type" json:"type"`
	SerialNumber string      `db:"serial_number" json:"serial_number"`
	BaseID       string      `db:"base_id" json:"base_id"`
	Status       AssetStatus `db:"status" json:"status"`
	AssignedTo   *string     `db:"assigned_to" json:"assigned_to,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// AssetFilter constrains asset listing queries.
type AssetFilter struct {
	Type   AssetType
	Status AssetStatus
	BaseID string
	Limit  int
	Offset int
}
