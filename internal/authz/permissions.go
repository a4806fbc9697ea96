// internal/authz/permissions.go
package authz

import "autoshop-system/pkg/constants"

// --- СПИСОК ВСЕХ ПЕРМИШЕНОВ В СИСТЕМЕ ---

const (
	// Глобальные
	Superuser = "superuser"

	// Клиенты и автомобили
	CustomersView   = "customers:view"
	CustomersManage = "customers:manage"
	VehiclesView    = "vehicles:view"
	VehiclesManage  = "vehicles:manage"

	// Справочники
	CatalogView   = "catalog:view"
	CatalogManage = "catalog:manage"

	// Сотрудники
	EmployeesView   = "employees:view"
	EmployeesManage = "employees:manage"

	// Записи
	AppointmentsView   = "appointments:view"
	AppointmentsManage = "appointments:manage"

	// Ремонты
	RepairsView   = "repairs:view"
	RepairsCreate = "repairs:create"
	RepairsUpdate = "repairs:update"
	RepairsAssign = "repairs:assign"
	RepairsClaim  = "repairs:claim"
	RepairsStatus = "repairs:status"

	// Отчёты и панели
	ReportsView       = "reports:view"
	DashboardBoss     = "dashboard:boss"
	DashboardStaff    = "dashboard:staff"
	DashboardCustomer = "dashboard:customer"

	// Модификаторы области
	ScopeOwn = "scope:own"
	ScopeAll = "scope:all"
)

var rolePermissions = map[constants.Role][]string{
	constants.RoleBoss: {Superuser},
	constants.RoleSupervisor: {
		CustomersView, CustomersManage, VehiclesView, VehiclesManage,
		CatalogView, EmployeesView,
		AppointmentsView, AppointmentsManage,
		RepairsView, RepairsCreate, RepairsUpdate, RepairsAssign, RepairsClaim, RepairsStatus,
		ReportsView, DashboardStaff, ScopeAll,
	},
	constants.RoleFrontDesk: {
		CustomersView, CustomersManage, VehiclesView, VehiclesManage,
		CatalogView,
		AppointmentsView, AppointmentsManage,
		RepairsView, RepairsCreate, RepairsUpdate, RepairsStatus,
		DashboardStaff, ScopeAll,
	},
	constants.RoleMechanic: {
		CatalogView, AppointmentsView,
		RepairsView, RepairsClaim, RepairsStatus, RepairsUpdate,
		DashboardStaff, ScopeOwn,
	},
	constants.RoleCustomer: {
		CatalogView, VehiclesView,
		AppointmentsView, AppointmentsManage,
		RepairsView, DashboardCustomer, ScopeOwn,
	},
}

// PermissionsFor возвращает набор прав роли. Неизвестная роль прав не имеет.
func PermissionsFor(role constants.Role) map[string]bool {
	perms := make(map[string]bool, len(rolePermissions[role]))
	for _, p := range rolePermissions[role] {
		perms[p] = true
	}
	return perms
}
