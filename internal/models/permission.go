package models

// Permission is a capability token granted to a role.
type Permission string

const (
	PermViewAll           Permission = "view_all"
	PermViewBase          Permission = "view_base"
	PermManageUsers       Permission = "manage_users"
	PermManageBases       Permission = "manage_bases"
	PermManageAssets      Permission = "manage_assets"
	PermManageAssignments Permission = "manage_assignments"
	PermApprovePurchases  Permission = "approve_purchases"
	PermApproveTransfers  Permission = "approve_transfers"
	PermCreatePurchases   Permission = "create_purchases"
	PermCreateTransfers   Permission = "create_transfers"
)

// rolePermissions is the static role→capability table. Fixed at process start,
// never mutated at runtime.
var rolePermissions = map[UserRole][]Permission{
	RoleAdmin: {
		PermViewAll, PermManageUsers, PermManageBases,
		PermApproveTransfers, PermApprovePurchases,
	},
	RoleBaseCommander: {
		PermViewBase, PermApproveTransfers, PermApprovePurchases,
		PermManageAssignments,
	},
	RoleLogisticsOfficer: {
		PermViewBase, PermCreateTransfers, PermCreatePurchases,
		PermManageAssets,
	},
}

// HasPermission reports whether the role grants the capability. Unknown roles
// resolve to false rather than failing.
func HasPermission(role UserRole, perm Permission) bool {
	for _, granted := range rolePermissions[role] {
		if granted == perm {
			return true
		}
	}
	return false
}

// PermissionsForRole returns the granted capability set for a role.
func PermissionsForRole(role UserRole) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
