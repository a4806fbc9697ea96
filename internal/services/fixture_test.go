package services

import (
	"context"
	"testing"
	"time"

	"autoshop-system/internal/entities"
	"autoshop-system/pkg/constants"
	"autoshop-system/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var shopLocation = time.FixedZone("shop", -3*60*60)

// Сейчас 15 марта 2024, 10:00 по времени мастерской.
var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, shopLocation)

type fixture struct {
	store        *store
	bus          *recordingBus
	schedule     SlotSchedule
	appointments AppointmentServiceInterface
	repairs      RepairServiceInterface
	intake       IntakeServiceInterface

	ana    *entities.Customer
	xyz    *entities.Vehicle
	brakes *entities.Service
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithPolicy(t, constants.PermissiveTransitions{})
}

func newFixtureWithPolicy(t *testing.T, policy constants.TransitionPolicy) *fixture {
	t.Helper()
	now := func() time.Time { return fixedNow }
	st := newStore(now)
	schedule, err := NewSlotSchedule("08:00", "18:00", 30)
	require.NoError(t, err)

	logger := zap.NewNop()
	bus := &recordingBus{}
	f := &fixture{store: st, bus: bus, schedule: schedule}

	f.appointments = NewAppointmentService(fakeAppointmentRepo{st}, fakeCustomerRepo{st}, fakeServiceRepo{st},
		schedule, shopLocation, now, logger)
	f.repairs = NewRepairService(fakeRepairRepo{st}, fakeVehicleRepo{st}, fakeServiceRepo{st}, fakeEmployeeRepo{st},
		policy, schedule, shopLocation, bus, logger)
	f.intake = NewIntakeService(fakeTxManager{}, fakeCustomerRepo{st}, fakeVehicleRepo{st}, fakeRepairRepo{st},
		fakeServiceRepo{st}, f.appointments, schedule, shopLocation, now, bus, logger)

	ctx := context.Background()
	f.ana = &entities.Customer{FirstName: "Ana", LastName: "Gomez", Phone: "+56911111111", Email: "ana@example.com"}
	require.NoError(t, fakeCustomerRepo{st}.CreateCustomer(ctx, nil, f.ana))
	f.xyz = &entities.Vehicle{CustomerID: f.ana.ID, Brand: "Toyota", Model: "Corolla", Year: 2015, Plate: "XYZ789"}
	require.NoError(t, fakeVehicleRepo{st}.CreateVehicle(ctx, f.xyz))
	f.brakes = &entities.Service{Name: "Brakes", Price: decimal.RequireFromString("120.00"), DurationMinutes: 60}
	require.NoError(t, fakeServiceRepo{st}.CreateService(ctx, f.brakes))
	return f
}

func (f *fixture) addEmployee(t *testing.T, name string, role constants.Role) *entities.Employee {
	t.Helper()
	e := &entities.Employee{Name: name, Role: role, Email: name + "@shop.local"}
	require.NoError(t, fakeEmployeeRepo{f.store}.CreateEmployee(context.Background(), nil, e))
	return e
}

func (f *fixture) addService(t *testing.T, name, price string) *entities.Service {
	t.Helper()
	s := &entities.Service{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, fakeServiceRepo{f.store}.CreateService(context.Background(), s))
	return s
}

// systemCtx: контекст внутреннего вызова без пользователя.
func systemCtx() context.Context {
	return utils.WithSystemActor(context.Background())
}

func actorCtx(role constants.Role, employeeID, customerID *uint64) context.Context {
	return utils.WithActor(context.Background(), utils.Actor{UserID: 99, Role: role, EmployeeID: employeeID, CustomerID: customerID})
}

func day(offset int) time.Time {
	return dayIn(fixedNow, shopLocation).AddDate(0, 0, offset)
}
