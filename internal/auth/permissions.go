package auth

import "github.com/eter-store/eter-admin/internal/db/models"

// Permission constants define the available permissions in the system.
const (
	// PermSettingsRead allows reading store settings and their history.
	PermSettingsRead = "settings.read"
	// PermSettingsUpdate allows changing store settings.
	PermSettingsUpdate = "settings.update"
	// PermSettingsRollback allows restoring a previous settings value.
	PermSettingsRollback = "settings.rollback"

	// PermAcademyView allows viewing academy progress.
	PermAcademyView = "academy.view"

	// PermAdminRoles allows managing roles and role overrides.
	PermAdminRoles = "admin.roles"
)

// PermissionSpec describes a permission to seed.
type PermissionSpec struct {
	Name        string
	Resource    string
	Action      string
	Description string
}

// Permissions lists every permission with its description.
func Permissions() []PermissionSpec {
	return []PermissionSpec{
		{PermSettingsRead, "settings", "read", "View store settings and change history"},
		{PermSettingsUpdate, "settings", "update", "Change store settings"},
		{PermSettingsRollback, "settings", "rollback", "Restore a previous settings value"},
		{PermAcademyView, "academy", "view", "View academy level and progress"},
		{PermAdminRoles, "admin", "roles", "Manage roles and role overrides"},
	}
}

// DefaultRolePermissions maps the seeded roles to their permissions.
func DefaultRolePermissions() map[string][]string {
	return map[string][]string{
		models.RoleAdmin: {
			PermSettingsRead, PermSettingsUpdate, PermSettingsRollback, PermAcademyView, PermAdminRoles,
		},
		models.RoleStaff:    {PermSettingsRead, PermSettingsUpdate, PermAcademyView},
		models.RoleReseller: {PermAcademyView},
		models.RoleCustomer: {},
	}
}
