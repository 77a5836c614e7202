// Package lifecycle holds the status transition graphs for purchases,
// transfers, and assignments. The tables are fixed at process start; services
// consult them before mutating a store so that every committed status change
// is a legal edge performed by a principal holding the required capability.
package lifecycle

import "github.com/vishalbharath/Military-Assest-Management/internal/models"

// EntityKind selects one of the governed entity types.
type EntityKind string

const (
	KindPurchase   EntityKind = "PURCHASE"
	KindTransfer   EntityKind = "TRANSFER"
	KindAssignment EntityKind = "ASSIGNMENT"
)

// Rule describes one legal edge of an entity's transition graph.
type Rule struct {
	From       string
	To         string
	Permission models.Permission
	Action     string
}

var transitions = map[EntityKind][]Rule{
	KindPurchase: {
		{From: string(models.PurchaseStatusPending), To: string(models.PurchaseStatusApproved), Permission: models.PermApprovePurchases, Action: models.AuditActionPurchaseApproved},
		{From: string(models.PurchaseStatusPending), To: string(models.PurchaseStatusRejected), Permission: models.PermApprovePurchases, Action: models.AuditActionPurchaseRejected},
		{From: string(models.PurchaseStatusApproved), To: string(models.PurchaseStatusDelivered), Permission: models.PermManageAssets, Action: models.AuditActionPurchaseDelivered},
	},
	KindTransfer: {
		{From: string(models.TransferStatusPending), To: string(models.TransferStatusApproved), Permission: models.PermApproveTransfers, Action: models.AuditActionTransferApproved},
		{From: string(models.TransferStatusPending), To: string(models.TransferStatusRejected), Permission: models.PermApproveTransfers, Action: models.AuditActionTransferRejected},
		{From: string(models.TransferStatusApproved), To: string(models.TransferStatusInTransit), Permission: models.PermManageAssets, Action: models.AuditActionTransferDispatched},
		{From: string(models.TransferStatusInTransit), To: string(models.TransferStatusCompleted), Permission: models.PermManageAssets, Action: models.AuditActionTransferCompleted},
	},
	KindAssignment: {
		{From: string(models.AssignmentStatusActive), To: string(models.AssignmentStatusReturned), Permission: models.PermManageAssignments, Action: models.AuditActionAssetReturned},
		{From: string(models.AssignmentStatusActive), To: string(models.AssignmentStatusExpended), Permission: models.PermManageAssignments, Action: models.AuditActionAssetExpended},
		{From: string(models.AssignmentStatusActive), To: string(models.AssignmentStatusDamaged), Permission: models.PermManageAssignments, Action: models.AuditActionAssetDamaged},
	},
}

var initialStates = map[EntityKind]string{
	KindPurchase:   string(models.PurchaseStatusPending),
	KindTransfer:   string(models.TransferStatusPending),
	KindAssignment: string(models.AssignmentStatusActive),
}

// Assignment creation is deliberately permissive: the console lets any
// principal who manages assets or assignments hand out an asset.
var creationPermissions = map[EntityKind][]models.Permission{
	KindPurchase:   {models.PermCreatePurchases},
	KindTransfer:   {models.PermCreateTransfers},
	KindAssignment: {models.PermManageAssets, models.PermManageAssignments},
}

var creationActions = map[EntityKind]string{
	KindPurchase:   models.AuditActionPurchaseCreated,
	KindTransfer:   models.AuditActionTransferCreated,
	KindAssignment: models.AuditActionAssetAssigned,
}

// Edge returns the rule governing the from→to transition. The second return
// is false when no such edge exists, including from == to.
func Edge(kind EntityKind, from, to string) (Rule, bool) {
	for _, rule := range transitions[kind] {
		if rule.From == from && rule.To == to {
			return rule, true
		}
	}
	return Rule{}, false
}

// Initial returns the state a newly created entity starts in.
func Initial(kind EntityKind) string {
	return initialStates[kind]
}

// Terminal reports whether no edge leads out of the given state.
func Terminal(kind EntityKind, state string) bool {
	for _, rule := range transitions[kind] {
		if rule.From == state {
			return false
		}
	}
	return true
}

// CanCreate reports whether the role may create an entity of the given kind.
// Any one of the kind's creation capabilities suffices.
func CanCreate(kind EntityKind, role models.UserRole) bool {
	for _, perm := range creationPermissions[kind] {
		if models.HasPermission(role, perm) {
			return true
		}
	}
	return false
}

// CreationAction returns the audit action recorded when an entity of the
// given kind is created.
func CreationAction(kind EntityKind) string {
	return creationActions[kind]
}

// Rules returns a copy of the edge set for the kind.
func Rules(kind EntityKind) []Rule {
	rules := transitions[kind]
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}
