package services

import (
	"context"
	"testing"

	"autoshop-system/internal/dto"
	"autoshop-system/pkg/constants"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize_DeniesWithoutActor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.appointments.ScheduleAppointment(ctx, f.ana.ID, f.brakes.ID, day(1), "10:00")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Empty(t, f.store.appointments)

	_, _, err = f.appointments.GetAppointments(ctx, types.Filter{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.repairs.CreateTicket(ctx, dto.CreateRepairDTO{VehicleID: f.xyz.ID, ServiceID: f.brakes.ID, Condition: string(constants.ConditionRegular)})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthorize_SystemAndStaffActors(t *testing.T) {
	f := newFixture(t)

	_, err := f.appointments.ScheduleAppointment(systemCtx(), f.ana.ID, f.brakes.ID, day(1), "10:00")
	require.NoError(t, err)

	_, err = f.appointments.ScheduleAppointment(actorCtx(constants.RoleFrontDesk, nil, nil), f.ana.ID, f.brakes.ID, day(1), "11:00")
	require.NoError(t, err)

	_, err = f.repairs.CreateTicket(actorCtx(constants.RoleMechanic, nil, nil), dto.CreateRepairDTO{VehicleID: f.xyz.ID, ServiceID: f.brakes.ID, Condition: string(constants.ConditionRegular)})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
