package services

import (
	"strings"
	"testing"

	"autoshop-system/internal/dto"
	"autoshop-system/internal/events"
	"autoshop-system/pkg/constants"
	apperrors "autoshop-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) intakeRequest(slot string) dto.IntakeRequest {
	return dto.IntakeRequest{
		ChatID:    777001,
		Phone:     "+56 9 3333-4444",
		Name:      "  Carla Rojas Diaz ",
		Brand:     "Kia",
		Model:     "Rio",
		Year:      2018,
		Plate:     " ab cd 12 ",
		ServiceID: f.brakes.ID,
		Date:      day(1).Format(constants.DateLayout),
		Slot:      slot,
	}
}

func TestSubmitRequest_CreatesCustomerVehicleAndPendingTicket(t *testing.T) {
	f := newFixture(t)
	ctx := systemCtx()

	ticket, err := f.intake.SubmitRequest(ctx, f.intakeRequest("10:00"))
	require.NoError(t, err)

	assert.Equal(t, constants.RepairPending, ticket.Status)
	assert.Equal(t, constants.ConditionRegular, ticket.Condition)
	assert.Nil(t, ticket.MechanicID)
	assert.Equal(t, "AB CD 12", ticket.Plate)
	assert.Equal(t, "Carla Rojas Diaz", ticket.CustomerName)
	require.NotNil(t, ticket.ScheduledSlot)
	assert.Equal(t, "10:00", *ticket.ScheduledSlot)
	require.NotNil(t, ticket.ScheduledDate)
	assert.Equal(t, day(1).Format(constants.DateLayout), ticket.ScheduledDate.Format(constants.DateLayout))

	customer, err := fakeCustomerRepo{f.store}.FindByPhone(ctx, "+56933334444")
	require.NoError(t, err)
	assert.Equal(t, "Carla", customer.FirstName)
	assert.Equal(t, "Rojas Diaz", customer.LastName)
	assert.Equal(t, constants.TelegramCustomerAddress, customer.Address)
	assert.True(t, strings.HasPrefix(customer.Email, "telegram_56933334444_"))
	require.NotNil(t, customer.TelegramChatID)
	assert.EqualValues(t, 777001, *customer.TelegramChatID)

	assert.Equal(t, []string{events.RepairCreated}, f.bus.names())
}

func TestSubmitRequest_TicketHoldsItsSlot(t *testing.T) {
	f := newFixture(t)
	ctx := systemCtx()

	_, err := f.intake.SubmitRequest(ctx, f.intakeRequest("10:00"))
	require.NoError(t, err)

	free, err := f.intake.FreeSlots(ctx, day(1))
	require.NoError(t, err)
	assert.NotContains(t, free, "10:00")
	assert.Len(t, free, 19)

	_, err = f.intake.SubmitRequest(ctx, f.intakeRequest("10:00"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindSlotConflict))
}

func TestSubmitRequest_AppointmentBlocksSlot(t *testing.T) {
	f := newFixture(t)
	ctx := systemCtx()

	_, err := f.appointments.ScheduleAppointment(ctx, f.ana.ID, f.brakes.ID, day(1), "11:00")
	require.NoError(t, err)

	_, err = f.intake.SubmitRequest(ctx, f.intakeRequest("11:00"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindSlotConflict))
}

func TestSubmitRequest_RepeatCustomerIsReused(t *testing.T) {
	f := newFixture(t)
	ctx := systemCtx()

	first, err := f.intake.SubmitRequest(ctx, f.intakeRequest("10:00"))
	require.NoError(t, err)

	again := f.intakeRequest("12:00")
	again.Plate = "ZZ 99"
	second, err := f.intake.SubmitRequest(ctx, again)
	require.NoError(t, err)

	assert.Equal(t, first.CustomerID, second.CustomerID)
	assert.NotEqual(t, first.VehicleID, second.VehicleID)
	// Ana + Carla.
	assert.Len(t, f.store.customers, 2)
}

func TestSubmitRequest_PlateOfAnotherCustomerRejected(t *testing.T) {
	f := newFixture(t)
	req := f.intakeRequest("10:00")
	req.Plate = f.xyz.Plate

	_, err := f.intake.SubmitRequest(systemCtx(), req)
	require.Error(t, err)
	assert.Empty(t, f.store.repairs)
}

func TestSubmitRequest_Validation(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name   string
		mutate func(r *dto.IntakeRequest)
		kind   apperrors.ValidationKind
	}{
		{"bad phone", func(r *dto.IntakeRequest) { r.Phone = "12ab" }, apperrors.KindInvalidInput},
		{"short name", func(r *dto.IntakeRequest) { r.Name = "Al" }, apperrors.KindInvalidInput},
		{"empty plate", func(r *dto.IntakeRequest) { r.Plate = "   " }, apperrors.KindInvalidInput},
		{"year too old", func(r *dto.IntakeRequest) { r.Year = 1850 }, apperrors.KindInvalidInput},
		{"year from future", func(r *dto.IntakeRequest) { r.Year = fixedNow.Year() + 2 }, apperrors.KindInvalidInput},
		{"past date", func(r *dto.IntakeRequest) { r.Date = day(-1).Format(constants.DateLayout) }, apperrors.KindPastDate},
		{"slot outside grid", func(r *dto.IntakeRequest) { r.Slot = "19:00" }, apperrors.KindInvalidSlot},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.intakeRequest("10:00")
			tc.mutate(&req)
			_, err := f.intake.SubmitRequest(systemCtx(), req)
			assert.True(t, apperrors.IsKind(err, tc.kind), "получено %v", err)
		})
	}
	assert.Empty(t, f.store.repairs)
}

func TestBookableDates_StartTomorrow(t *testing.T) {
	f := newFixture(t)
	dates := f.intake.BookableDates()
	require.Len(t, dates, BookingDays)
	assert.Equal(t, "2024-03-16", dates[0].Format(constants.DateLayout))
	assert.Equal(t, "2024-03-22", dates[BookingDays-1].Format(constants.DateLayout))
}

func TestSubmitRequest_UnpaddedSlotStoredCanonical(t *testing.T) {
	f := newFixture(t)
	ctx := systemCtx()

	ticket, err := f.intake.SubmitRequest(ctx, f.intakeRequest("9:00"))
	require.NoError(t, err)
	require.NotNil(t, ticket.ScheduledSlot)
	assert.Equal(t, "09:00", *ticket.ScheduledSlot)

	_, err = f.intake.SubmitRequest(ctx, f.intakeRequest("09:00"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindSlotConflict))
}
