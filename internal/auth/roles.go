package auth

// Admin role constants.
const (
	RoleOperator   = "operator"
	RoleSuperAdmin = "superadmin"
)

// AllAdminRoles returns all valid admin roles.
func AllAdminRoles() []string {
	return []string{RoleOperator, RoleSuperAdmin}
}
