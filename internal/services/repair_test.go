package services

import (
	"testing"

	"autoshop-system/internal/dto"
	"autoshop-system/internal/events"
	"autoshop-system/pkg/constants"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) newTicket(t *testing.T) uint64 {
	t.Helper()
	ticket, err := f.repairs.CreateTicket(systemCtx(), dto.CreateRepairDTO{
		VehicleID: f.xyz.ID,
		ServiceID: f.brakes.ID,
		Condition: string(constants.ConditionRegular),
	})
	require.NoError(t, err)
	return ticket.ID
}

func TestCreateTicket_StartsPendingAndUnassigned(t *testing.T) {
	f := newFixture(t)

	ticket, err := f.repairs.CreateTicket(systemCtx(), dto.CreateRepairDTO{
		VehicleID: f.xyz.ID,
		ServiceID: f.brakes.ID,
		Condition: string(constants.ConditionRegular),
		Status:    string(constants.RepairPending),
	})
	require.NoError(t, err)

	assert.Equal(t, constants.RepairPending, ticket.Status)
	assert.False(t, ticket.IntakeAt.IsZero())
	assert.Nil(t, ticket.MechanicID)
	assert.Nil(t, ticket.CompletedAt)
	assert.Equal(t, "XYZ789", ticket.Plate)
	assert.Equal(t, "Ana Gomez", ticket.CustomerName)
	assert.True(t, ticket.ServicePrice.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, []string{events.RepairCreated}, f.bus.names())
}

func TestCreateTicket_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := systemCtx()
	receptionist := f.addEmployee(t, "reception", constants.RoleFrontDesk)

	cases := []struct {
		name string
		in   dto.CreateRepairDTO
		kind apperrors.ValidationKind
	}{
		{"bad condition", dto.CreateRepairDTO{VehicleID: f.xyz.ID, ServiceID: f.brakes.ID, Condition: "wrecked"}, apperrors.KindInvalidCondition},
		{"bad status", dto.CreateRepairDTO{VehicleID: f.xyz.ID, ServiceID: f.brakes.ID, Condition: "regular", Status: "lost"}, apperrors.KindInvalidStatus},
		{"bad slot", dto.CreateRepairDTO{VehicleID: f.xyz.ID, ServiceID: f.brakes.ID, Condition: "regular", ScheduledSlot: "07:00"}, apperrors.KindInvalidSlot},
		{"front desk as mechanic", dto.CreateRepairDTO{VehicleID: f.xyz.ID, ServiceID: f.brakes.ID, Condition: "regular", MechanicID: &receptionist.ID}, apperrors.KindInvalidMechanic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.repairs.CreateTicket(ctx, tc.in)
			assert.True(t, apperrors.IsKind(err, tc.kind), "получено %v", err)
		})
	}

	_, err := f.repairs.CreateTicket(ctx, dto.CreateRepairDTO{VehicleID: 777, ServiceID: f.brakes.ID, Condition: "regular"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, f.store.repairs)
}

func TestSetStatus_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := systemCtx()
	id := f.newTicket(t)

	first, err := f.repairs.SetStatus(ctx, id, string(constants.RepairInProgress))
	require.NoError(t, err)
	second, err := f.repairs.SetStatus(ctx, id, string(constants.RepairInProgress))
	require.NoError(t, err)

	assert.Equal(t, constants.RepairInProgress, first.Status)
	assert.Equal(t, constants.RepairInProgress, second.Status)
	assert.Equal(t, []string{events.RepairCreated, events.RepairStatusChanged}, f.bus.names())
}

func TestSetStatus_CompletionPublishesEventButKeepsCompletedAt(t *testing.T) {
	f := newFixture(t)
	ctx := systemCtx()
	id := f.newTicket(t)

	ticket, err := f.repairs.SetStatus(ctx, id, string(constants.RepairCompleted))
	require.NoError(t, err)
	assert.Nil(t, ticket.CompletedAt)
	assert.Contains(t, f.bus.names(), events.RepairCompleted)

	done := fixedNow
	ticket, err = f.repairs.SetCompletion(ctx, id, &done)
	require.NoError(t, err)
	require.NotNil(t, ticket.CompletedAt)
	assert.True(t, ticket.CompletedAt.Equal(done))
}

func TestSetStatus_UnknownStatus(t *testing.T) {
	f := newFixture(t)
	_, err := f.repairs.SetStatus(systemCtx(), f.newTicket(t), "teleported")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidStatus))
}

func TestSetStatus_PermissiveAllowsAnyJump(t *testing.T) {
	f := newFixture(t)
	ctx := systemCtx()
	id := f.newTicket(t)

	_, err := f.repairs.SetStatus(ctx, id, string(constants.RepairCompleted))
	require.NoError(t, err)
	ticket, err := f.repairs.SetStatus(ctx, id, string(constants.RepairPending))
	require.NoError(t, err)
	assert.Equal(t, constants.RepairPending, ticket.Status)
}

func TestSetStatus_StrictTransitions(t *testing.T) {
	f := newFixtureWithPolicy(t, constants.StrictTransitions)
	ctx := systemCtx()
	id := f.newTicket(t)

	_, err := f.repairs.SetStatus(ctx, id, string(constants.RepairCompleted))
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))

	for _, next := range []constants.RepairStatus{
		constants.RepairInProgress,
		constants.RepairAwaitingParts,
		constants.RepairInProgress,
		constants.RepairReadyForReview,
		constants.RepairCompleted,
	} {
		_, err := f.repairs.SetStatus(ctx, id, string(next))
		require.NoError(t, err, "переход в %s", next)
	}

	_, err = f.repairs.SetStatus(ctx, id, string(constants.RepairCancelled))
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

func TestClaimTicket_SecondMechanicGetsConflict(t *testing.T) {
	f := newFixture(t)
	id := f.newTicket(t)
	first := f.addEmployee(t, "luis", constants.RoleMechanic)
	second := f.addEmployee(t, "pedro", constants.RoleMechanic)

	ticket, err := f.repairs.ClaimTicket(actorCtx(constants.RoleMechanic, &first.ID, nil), id, first.ID)
	require.NoError(t, err)
	require.NotNil(t, ticket.MechanicID)
	assert.Equal(t, first.ID, *ticket.MechanicID)

	_, err = f.repairs.ClaimTicket(actorCtx(constants.RoleMechanic, &second.ID, nil), id, second.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAlreadyClaimed))
	assert.Equal(t, first.ID, *f.store.repairs[id].MechanicID)
}

func TestAssignMechanic(t *testing.T) {
	f := newFixture(t)
	ctx := systemCtx()
	id := f.newTicket(t)
	mechanic := f.addEmployee(t, "luis", constants.RoleMechanic)
	cashier := f.addEmployee(t, "ana", constants.RoleFrontDesk)

	_, err := f.repairs.AssignMechanic(ctx, id, &cashier.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidMechanic))

	ticket, err := f.repairs.AssignMechanic(ctx, id, &mechanic.ID)
	require.NoError(t, err)
	require.NotNil(t, ticket.MechanicName)
	assert.Equal(t, "luis", *ticket.MechanicName)

	// Повторное назначение того же механика ничего не публикует.
	_, err = f.repairs.AssignMechanic(ctx, id, utils.ToPtr(mechanic.ID))
	require.NoError(t, err)
	assert.Equal(t, []string{events.RepairCreated, events.RepairMechanicAssigned}, f.bus.names())

	ticket, err = f.repairs.AssignMechanic(ctx, id, nil)
	require.NoError(t, err)
	assert.Nil(t, ticket.MechanicID)
}

func TestMechanicCanOnlyChangeOwnTickets(t *testing.T) {
	f := newFixture(t)
	id := f.newTicket(t)
	owner := f.addEmployee(t, "luis", constants.RoleMechanic)
	other := f.addEmployee(t, "pedro", constants.RoleMechanic)
	_, err := f.repairs.AssignMechanic(systemCtx(), id, &owner.ID)
	require.NoError(t, err)

	_, err = f.repairs.SetStatus(actorCtx(constants.RoleMechanic, &other.ID, nil), id, string(constants.RepairInProgress))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.repairs.SetStatus(actorCtx(constants.RoleMechanic, &owner.ID, nil), id, string(constants.RepairInProgress))
	assert.NoError(t, err)

	// Смотреть чужую заявку механику можно.
	_, err = f.repairs.FindTicket(actorCtx(constants.RoleMechanic, &other.ID, nil), id)
	assert.NoError(t, err)
}

func TestGetTickets_RejectsUnknownStatusFilter(t *testing.T) {
	f := newFixture(t)
	f.newTicket(t)

	_, _, err := f.repairs.GetTickets(systemCtx(), listFilter(0, map[string]interface{}{"status": "pending,flying"}))
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidStatus))

	list, total, err := f.repairs.GetTickets(systemCtx(), listFilter(0, map[string]interface{}{"status": "pending"}))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)
}

func TestGetTickets_CustomerScopedToOwnVehicles(t *testing.T) {
	f := newFixture(t)
	f.newTicket(t)
	stranger := uint64(5000)

	list, _, err := f.repairs.GetTickets(actorCtx(constants.RoleCustomer, nil, &stranger), listFilter(0, nil))
	require.NoError(t, err)
	assert.Empty(t, list)

	list, _, err = f.repairs.GetTickets(actorCtx(constants.RoleCustomer, nil, &f.ana.ID), listFilter(0, nil))
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateTicket_ScheduledSlotStoredCanonical(t *testing.T) {
	f := newFixture(t)

	ticket, err := f.repairs.CreateTicket(systemCtx(), dto.CreateRepairDTO{
		VehicleID:     f.xyz.ID,
		ServiceID:     f.brakes.ID,
		Condition:     string(constants.ConditionRegular),
		ScheduledDate: day(1).Format(constants.DateLayout),
		ScheduledSlot: "8:30",
	})
	require.NoError(t, err)
	require.NotNil(t, ticket.ScheduledSlot)
	assert.Equal(t, "08:30", *ticket.ScheduledSlot)
}
