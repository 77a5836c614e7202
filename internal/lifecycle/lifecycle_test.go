package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vishalbharath/Military-Assest-Management/internal/models"
)

func TestPurchaseGraph(t *testing.T) {
	rule, ok := Edge(KindPurchase, "PENDING", "APPROVED")
	require.True(t, ok)
	require.Equal(t, models.PermApprovePurchases, rule.Permission)
	require.Equal(t, models.AuditActionPurchaseApproved, rule.Action)

	rule, ok = Edge(KindPurchase, "APPROVED", "DELIVERED")
	require.True(t, ok)
	require.Equal(t, models.PermManageAssets, rule.Permission)

	_, ok = Edge(KindPurchase, "PENDING", "DELIVERED")
	require.False(t, ok, "skipping APPROVED must not be allowed")

	_, ok = Edge(KindPurchase, "APPROVED", "APPROVED")
	require.False(t, ok, "self transitions must be rejected")

	require.True(t, Terminal(KindPurchase, "REJECTED"))
	require.True(t, Terminal(KindPurchase, "DELIVERED"))
	require.False(t, Terminal(KindPurchase, "PENDING"))
	require.Equal(t, "PENDING", Initial(KindPurchase))
}

func TestTransferGraph(t *testing.T) {
	walk := [][2]string{
		{"PENDING", "APPROVED"},
		{"APPROVED", "IN_TRANSIT"},
		{"IN_TRANSIT", "COMPLETED"},
	}
	for _, step := range walk {
		_, ok := Edge(KindTransfer, step[0], step[1])
		require.True(t, ok, "edge %s -> %s", step[0], step[1])
	}

	_, ok := Edge(KindTransfer, "PENDING", "COMPLETED")
	require.False(t, ok)
	_, ok = Edge(KindTransfer, "APPROVED", "REJECTED")
	require.False(t, ok, "rejection is only available while pending")

	require.True(t, Terminal(KindTransfer, "COMPLETED"))
	require.True(t, Terminal(KindTransfer, "REJECTED"))
}

func TestAssignmentGraph(t *testing.T) {
	for _, to := range []string{"RETURNED", "EXPENDED", "DAMAGED"} {
		rule, ok := Edge(KindAssignment, "ACTIVE", to)
		require.True(t, ok)
		require.Equal(t, models.PermManageAssignments, rule.Permission)
		require.True(t, Terminal(KindAssignment, to))
	}
	require.Equal(t, "ACTIVE", Initial(KindAssignment))
}

func TestCreationPermissions(t *testing.T) {
	require.True(t, CanCreate(KindPurchase, models.RoleLogisticsOfficer))
	require.False(t, CanCreate(KindPurchase, models.RoleBaseCommander))
	require.True(t, CanCreate(KindTransfer, models.RoleLogisticsOfficer))
	require.False(t, CanCreate(KindTransfer, models.RoleAdmin))

	// Assignments accept either manage_assets or manage_assignments.
	require.True(t, CanCreate(KindAssignment, models.RoleLogisticsOfficer))
	require.True(t, CanCreate(KindAssignment, models.RoleBaseCommander))
	require.False(t, CanCreate(KindAssignment, models.RoleAdmin))
}

func TestEveryRoleHasPermissionEntry(t *testing.T) {
	for _, role := range models.Roles {
		require.NotEmpty(t, models.PermissionsForRole(role), "role %s has no capability set", role)
	}
}

func TestEveryEdgeCarriesActionAndPermission(t *testing.T) {
	for _, kind := range []EntityKind{KindPurchase, KindTransfer, KindAssignment} {
		for _, rule := range Rules(kind) {
			require.NotEmpty(t, rule.Action, "%s edge %s->%s missing audit action", kind, rule.From, rule.To)
			require.NotEmpty(t, rule.Permission, "%s edge %s->%s missing permission", kind, rule.From, rule.To)
		}
	}
}
