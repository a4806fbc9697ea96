package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"autoshop-system/internal/entities"
	"autoshop-system/migrations"
	"autoshop-system/pkg/constants"
	apperrors "autoshop-system/pkg/errors"
)

var testPool *pgxpool.Pool

// TestMain поднимает схему в тестовой БД из TEST_DATABASE_URL.
// Без переменной интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		ctx := context.Background()
		if err := migrations.Up(ctx, dsn, zap.NewNop()); err != nil {
			panic(err)
		}
		cfg, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			panic(err)
		}
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			pgxdecimal.Register(conn.TypeMap())
			return nil
		}
		testPool, err = pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			panic(err)
		}
	}

	code := m.Run()
	if testPool != nil {
		testPool.Close()
	}
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL не задан")
	}
	_, err := testPool.Exec(context.Background(),
		`TRUNCATE TABLE repair_tickets, appointments, users, vehicles, services, employees, customers RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

type seeded struct {
	customer entities.Customer
	vehicle  entities.Vehicle
	service  entities.Service
}

func seedShop(t *testing.T, price string) seeded {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	s := seeded{
		customer: entities.Customer{FirstName: "Ana", LastName: "Gomez", Phone: "+56911111111", Email: "ana@example.com"},
		service:  entities.Service{Name: "Brakes", Price: decimal.RequireFromString(price), DurationMinutes: 60},
	}
	require.NoError(t, NewCustomerRepository(testPool, logger).CreateCustomer(ctx, nil, &s.customer))
	s.vehicle = entities.Vehicle{CustomerID: s.customer.ID, Brand: "Toyota", Model: "Corolla", Year: 2015, Plate: "XYZ789"}
	require.NoError(t, NewVehicleRepository(testPool, logger).CreateVehicle(ctx, &s.vehicle))
	require.NoError(t, NewServiceCatalogRepository(testPool, logger).CreateService(ctx, &s.service))
	return s
}

func TestAppointmentRepository_Integration_SlotUniqueness(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	s := seedShop(t, "120.00")
	repo := NewAppointmentRepository(testPool, zap.NewNop())

	day := time.Now().AddDate(0, 0, 1)
	first := &entities.Appointment{CustomerID: s.customer.ID, ServiceID: s.service.ID, Date: day, Slot: "10:00"}
	require.NoError(t, repo.CreateAppointment(ctx, first))
	assert.NotZero(t, first.ID)

	second := &entities.Appointment{CustomerID: s.customer.ID, ServiceID: s.service.ID, Date: day, Slot: "10:00"}
	err := repo.CreateAppointment(ctx, second)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSlotConflict))

	// Сохранение записи в её же слот не конфликтует.
	require.NoError(t, repo.UpdateAppointment(ctx, first))

	taken, err := repo.IsSlotTaken(ctx, day, "10:00", first.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	booked, err := repo.BookedSlots(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00"}, booked)
}

func TestRepairRepository_Integration_ClaimAndIncome(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	s := seedShop(t, "50.00")
	loc := time.UTC
	repo := NewRepairRepository(testPool, loc, zap.NewNop())

	tomorrow := time.Now().AddDate(0, 0, 1)
	slot := "09:30"
	ticket := &entities.RepairTicket{
		VehicleID:     s.vehicle.ID,
		ServiceID:     s.service.ID,
		Condition:     constants.ConditionRegular,
		Status:        constants.RepairPending,
		ScheduledDate: &tomorrow,
		ScheduledSlot: &slot,
	}
	require.NoError(t, NewTxManager(testPool).RunInTransaction(ctx, func(tx pgx.Tx) error {
		return repo.CreateRepair(ctx, tx, ticket)
	}))
	require.NotZero(t, ticket.ID)
	assert.False(t, ticket.IntakeAt.IsZero())

	found, err := repo.FindRepair(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, found.MechanicID)
	assert.Equal(t, "XYZ789", found.Plate)

	taken, err := repo.ScheduledSlotsTaken(ctx, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:30"}, taken)

	mechanic := &entities.Employee{Name: "Luis", Position: "Mecánico", Role: constants.RoleMechanic, Email: "luis@example.com"}
	require.NoError(t, NewEmployeeRepository(testPool, zap.NewNop()).CreateEmployee(ctx, nil, mechanic))

	ok, err := repo.ClaimRepair(ctx, ticket.ID, mechanic.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.ClaimRepair(ctx, ticket.ID, mechanic.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.UpdateStatus(ctx, ticket.ID, constants.RepairCompleted))
	_, err = testPool.Exec(ctx, "UPDATE repair_tickets SET intake_at = '2024-03-10T12:00:00Z' WHERE id = $1", ticket.ID)
	require.NoError(t, err)

	buckets, err := NewReportRepository(testPool, loc, zap.NewNop()).MonthlyIncome(ctx, entities.IncomeFilter{OnlyCompleted: true})
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2024-03", buckets[0].Period)
	assert.Equal(t, "03/2024", buckets[0].Label)
	assert.Equal(t, 1, buckets[0].TicketCount)
	assert.True(t, decimal.RequireFromString("50").Equal(buckets[0].Total))

	assert.ErrorIs(t, repo.UpdateNotes(ctx, 9999, "x"), apperrors.ErrNotFound)
}

func TestCustomerRepository_Integration_UpsertByPhone(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewCustomerRepository(testPool, zap.NewNop())
	chatID := int64(42)

	first := &entities.Customer{FirstName: "Ana", Phone: "+56922222222", Email: "tg1@bot.local", Address: constants.TelegramCustomerAddress, TelegramChatID: &chatID}
	require.NoError(t, repo.UpsertByPhone(ctx, nil, first))

	again := &entities.Customer{FirstName: "Ana María", Phone: "+56922222222", Email: "tg2@bot.local", Address: constants.TelegramCustomerAddress}
	require.NoError(t, repo.UpsertByPhone(ctx, nil, again))

	assert.Equal(t, first.ID, again.ID)
	require.NotNil(t, again.TelegramChatID)
	assert.Equal(t, chatID, *again.TelegramChatID)
}
