package dto

import "github.com/vishalbharath/Military-Assest-Management/internal/models"

// DashboardMetricsResponse aggregates inventory movement for the console's
// landing view. It is recomputed from the stores on every call.
type DashboardMetricsResponse struct {
	OpeningBalance  int               `json:"openingBalance"`
	ClosingBalance  int               `json:"closingBalance"`
	NetMovement     int               `json:"netMovement"`
	TotalAssigned   int               `json:"totalAssigned"`
	TotalExpended   int               `json:"totalExpended"`
	AssetsByType    []AssetTypeMetric `json:"assetsByType"`
	RecentActivity  []models.AuditLog `json:"recentActivities"`
}

// AssetTypeMetric breaks asset counts down by type and status.
type AssetTypeMetric struct {
	Type        models.AssetType `json:"type"`
	Count       int              `json:"count"`
	Available   int              `json:"available"`
	Assigned    int              `json:"assigned"`
	Maintenance int              `json:"maintenance"`
	Expended    int              `json:"expended"`
}
