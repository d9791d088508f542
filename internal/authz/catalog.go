package authz

// Asset management permissions.
const (
	PermAssetsView   = "assets.view"
	PermAssetsCreate = "assets.create"
	PermAssetsEdit   = "assets.edit"
	PermAssetsDelete = "assets.delete"
	PermAssetsAssign = "assets.assign"
)

// Employee directory permissions.
const (
	PermEmployeesView   = "employees.view"
	PermEmployeesCreate = "employees.create"
	PermEmployeesEdit   = "employees.edit"
	PermEmployeesDelete = "employees.delete"
)

// SIM card inventory permissions.
const (
	PermSimcardsView   = "simcards.view"
	PermSimcardsCreate = "simcards.create"
	PermSimcardsEdit   = "simcards.edit"
	PermSimcardsDelete = "simcards.delete"
)

// Software license permissions.
const (
	PermLicensesView   = "licenses.view"
	PermLicensesCreate = "licenses.create"
	PermLicensesEdit   = "licenses.edit"
	PermLicensesDelete = "licenses.delete"
)

// Purchase order permissions.
const (
	PermOrdersView    = "orders.view"
	PermOrdersCreate  = "orders.create"
	PermOrdersEdit    = "orders.edit"
	PermOrdersDelete  = "orders.delete"
	PermOrdersApprove = "orders.approve"
)

// Project and reporting permissions.
const (
	PermProjectsView = "projects.view"
	PermProjectsEdit = "projects.edit"

	PermReportsView   = "reports.view"
	PermReportsExport = "reports.export"
)

// Platform permissions.
const (
	PermUsersView = "users.view"
	PermUsersEdit = "users.edit"

	PermSystemAdmin   = "system.admin"
	PermSystemAudit   = "system.audit"
	PermSystemBackup  = "system.backup"
	PermSystemRestore = "system.restore"
)

// Group is a named slice of related permissions, used to render admin grant forms.
type Group struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// Groups returns the catalog partitioned by resource domain, in display order.
func Groups() []Group {
	return []Group{
		{Name: "assets", Permissions: []string{PermAssetsView, PermAssetsCreate, PermAssetsEdit, PermAssetsDelete, PermAssetsAssign}},
		{Name: "employees", Permissions: []string{PermEmployeesView, PermEmployeesCreate, PermEmployeesEdit, PermEmployeesDelete}},
		{Name: "simcards", Permissions: []string{PermSimcardsView, PermSimcardsCreate, PermSimcardsEdit, PermSimcardsDelete}},
		{Name: "licenses", Permissions: []string{PermLicensesView, PermLicensesCreate, PermLicensesEdit, PermLicensesDelete}},
		{Name: "orders", Permissions: []string{PermOrdersView, PermOrdersCreate, PermOrdersEdit, PermOrdersDelete, PermOrdersApprove}},
		{Name: "projects", Permissions: []string{PermProjectsView, PermProjectsEdit}},
		{Name: "reports", Permissions: []string{PermReportsView, PermReportsExport}},
		{Name: "users", Permissions: []string{PermUsersView, PermUsersEdit}},
		{Name: "system", Permissions: []string{PermSystemAdmin, PermSystemAudit, PermSystemBackup, PermSystemRestore}},
	}
}

// Catalog returns every permission in the closed catalog, in group order.
func Catalog() []string {
	var all []string
	for _, g := range Groups() {
		all = append(all, g.Permissions...)
	}
	return all
}

var catalogSet = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, p := range Catalog() {
		set[p] = struct{}{}
	}
	return set
}()

// ValidPermission reports whether p is a member of the catalog.
func ValidPermission(p string) bool {
	_, ok := catalogSet[p]
	return ok
}
