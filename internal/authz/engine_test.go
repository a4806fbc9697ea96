package authz

import (
	"testing"

	"autoshop-system/internal/entities"
	"autoshop-system/pkg/constants"
	"autoshop-system/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func TestCanDo_RolePermissions(t *testing.T) {
	boss := utils.Actor{UserID: 1, Role: constants.RoleBoss}
	desk := utils.Actor{UserID: 2, Role: constants.RoleFrontDesk}

	assert.True(t, CanDo(EmployeesManage, NewContext(boss, nil)))
	assert.False(t, CanDo(EmployeesManage, NewContext(desk, nil)))
	assert.True(t, CanDo(AppointmentsManage, NewContext(desk, &entities.Appointment{CustomerID: 9})))
	assert.False(t, CanDo(ReportsView, NewContext(utils.Actor{Role: "intruder"}, nil)))
}

func TestCanDo_MechanicOwnsAssignedRepairs(t *testing.T) {
	employeeID := uint64(7)
	other := uint64(8)
	mechanic := utils.Actor{UserID: 3, Role: constants.RoleMechanic, EmployeeID: &employeeID}

	assigned := &entities.RepairTicket{MechanicID: &employeeID}
	foreign := &entities.RepairTicket{MechanicID: &other}
	free := &entities.RepairTicket{}

	assert.True(t, CanDo(RepairsStatus, NewContext(mechanic, assigned)))
	assert.False(t, CanDo(RepairsStatus, NewContext(mechanic, foreign)))
	assert.True(t, CanDo(RepairsView, NewContext(mechanic, foreign)))
	assert.True(t, CanDo(RepairsClaim, NewContext(mechanic, free)))
	assert.False(t, CanDo(RepairsAssign, NewContext(mechanic, free)))
}

func TestCanDo_CustomerSeesOnlyOwnRecords(t *testing.T) {
	customerID := uint64(4)
	customer := utils.Actor{UserID: 5, Role: constants.RoleCustomer, CustomerID: &customerID}

	assert.True(t, CanDo(RepairsView, NewContext(customer, &entities.RepairTicket{CustomerID: 4})))
	assert.False(t, CanDo(RepairsView, NewContext(customer, &entities.RepairTicket{CustomerID: 6})))
	assert.True(t, CanDo(AppointmentsManage, NewContext(customer, &entities.Appointment{CustomerID: 4})))
	assert.False(t, CanDo(AppointmentsManage, NewContext(customer, &entities.Appointment{CustomerID: 6})))
	assert.False(t, CanDo(CustomersManage, NewContext(customer, &entities.Customer{ID: 4})))
}
