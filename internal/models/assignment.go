package models

import "time"

// AssignmentStatus captures the outcome of an asset assignment.
type AssignmentStatus string

const (
	AssignmentStatusActive   AssignmentStatus = "ACTIVE"
	AssignmentStatusReturned AssignmentStatus = "RETURNED"
	AssignmentStatusExpended AssignmentStatus = "EXPENDED"
	AssignmentStatusDamaged  AssignmentStatus = "DAMAGED"
)

// Assignment hands an asset to personnel for a stated purpose.
type Assignment struct {
	ID                 string           `db:"id" json:"id"`
	AssetID            string           `db:"asset_id" json:"asset_id"`
	AssignedTo         string           `db:"assigned_to" json:"assigned_to"`
	AssignedBy         string           `db:"assigned_by" json:"assigned_by"`
	BaseID             string           `db:"base_id" json:"base_id"`
	AssignmentDate     time.Time        `db:"assignment_date" json:"assignment_date"`
	ExpectedReturnDate *time.Time       `db:"expected_return_date" json:"expected_return_date,omitempty"`
	ActualReturnDate   *time.Time       `db:"actual_return_date" json:"actual_return_date,omitempty"`
	Status             AssignmentStatus `db:"status" json:"status"`
	Purpose            string           `db:"purpose" json:"purpose"`
	Notes              string           `db:"notes" json:"notes"`
}

// AssignmentFilter constrains assignment listing queries.
type AssignmentFilter struct {
	Status     []AssignmentStatus
	BaseID     string
	AssignedTo string
	Limit      int
	Offset     int
}
