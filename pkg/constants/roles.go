package constants

// Role: роль пользователя системы. Хранится в users.role и в JWT.
type Role string

const (
	RoleBoss       Role = "boss"
	RoleSupervisor Role = "supervisor"
	RoleMechanic   Role = "mechanic"
	RoleFrontDesk  Role = "front_desk"
	RoleCustomer   Role = "customer"
)

var Roles = []Role{RoleBoss, RoleSupervisor, RoleMechanic, RoleFrontDesk, RoleCustomer}

func (r Role) IsValid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// IsStaff: сотрудник мастерской (любая роль, кроме клиента).
func (r Role) IsStaff() bool {
	return r.IsValid() && r != RoleCustomer
}

// CanRepair: роли, которым можно назначать ремонт.
func (r Role) CanRepair() bool {
	return r == RoleMechanic || r == RoleSupervisor || r == RoleBoss
}
