package authz

// systemOperations is the audit/backup/restore subset withheld from Admin defaults.
var systemOperations = map[string]struct{}{
	PermSystemAudit:   {},
	PermSystemBackup:  {},
	PermSystemRestore: {},
}

// managerDefaults is the read-heavy business subset seeded for managers.
var managerDefaults = []string{
	PermAssetsView,
	PermAssetsEdit,
	PermAssetsAssign,
	PermEmployeesView,
	PermSimcardsView,
	PermLicensesView,
	PermOrdersView,
	PermOrdersCreate,
	PermProjectsView,
	PermReportsView,
	PermReportsExport,
}

// userDefaults is the read-only subset seeded for regular users.
var userDefaults = []string{
	PermAssetsView,
	PermEmployeesView,
	PermSimcardsView,
	PermLicensesView,
	PermOrdersView,
	PermProjectsView,
	PermReportsView,
}

// DefaultPermissionsFor returns the ordered default permission set for a role.
//
// This policy is consulted only when provisioning an account or on an explicit
// "reset to role defaults" request. Live authorization reads the explicit grant
// store exclusively; an account whose grants are removed keeps its role but has
// no effective permissions until re-seeded.
func DefaultPermissionsFor(role Role) []string {
	switch role {
	case RoleSuperAdmin:
		return Catalog()
	case RoleAdmin:
		var perms []string
		for _, p := range Catalog() {
			if _, withheld := systemOperations[p]; withheld {
				continue
			}
			perms = append(perms, p)
		}
		return perms
	case RoleManager:
		return append([]string(nil), managerDefaults...)
	case RoleUser:
		return append([]string(nil), userDefaults...)
	default:
		return nil
	}
}
