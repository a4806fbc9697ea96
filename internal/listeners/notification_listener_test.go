package listeners

import (
	"context"
	"sync"
	"testing"
	"time"

	"autoshop-system/internal/entities"
	"autoshop-system/internal/events"
	"autoshop-system/internal/repositories"
	"autoshop-system/pkg/constants"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/eventbus"
	"autoshop-system/pkg/telegram"
	"autoshop-system/pkg/websocket"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeTelegram struct {
	telegram.ServiceInterface
	mu   sync.Mutex
	sent []sentMessage
}

func (f *fakeTelegram) SendMessageEx(ctx context.Context, chatID int64, text string, options ...telegram.MessageOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeTelegram) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type fakeBoard struct {
	mu    sync.Mutex
	types []string
}

func (f *fakeBoard) Broadcast(messageType string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := payload.(websocket.RepairPayload); ok {
		f.types = append(f.types, messageType)
	}
	return nil
}

type customerRepo struct {
	repositories.CustomerRepositoryInterface
	byID map[uint64]*entities.Customer
}

func (r customerRepo) FindCustomer(ctx context.Context, id uint64) (*entities.Customer, error) {
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, apperrors.ErrNotFound
}

type employeeRepo struct {
	repositories.EmployeeRepositoryInterface
	byID map[uint64]*entities.Employee
}

func (r employeeRepo) FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error) {
	if e, ok := r.byID[id]; ok {
		return e, nil
	}
	return nil, apperrors.ErrNotFound
}

func setup(t *testing.T) (*eventbus.Bus, *fakeTelegram, *fakeBoard) {
	t.Helper()
	anaChat, luisChat := int64(1001), int64(2002)
	tg := &fakeTelegram{}
	board := &fakeBoard{}
	listener := NewNotificationListener(tg, board,
		customerRepo{byID: map[uint64]*entities.Customer{
			1: {ID: 1, FirstName: "Ana", TelegramChatID: &anaChat},
			2: {ID: 2, FirstName: "Bob"},
		}},
		employeeRepo{byID: map[uint64]*entities.Employee{
			5: {ID: 5, Name: "Luis", Role: constants.RoleMechanic, TelegramChatID: &luisChat},
		}},
		zap.NewNop(),
	)
	bus := eventbus.New(zap.NewNop())
	listener.Register(bus)
	return bus, tg, board
}

func ticket(customerID uint64) entities.RepairTicket {
	return entities.RepairTicket{
		ID:           10,
		CustomerID:   customerID,
		Plate:        "XYZ789",
		ServiceName:  "Brakes",
		ServicePrice: decimal.RequireFromString("120"),
		Status:       constants.RepairCompleted,
	}
}

func waitBus(t *testing.T, bus *eventbus.Bus) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, bus.Wait(ctx))
}

func TestCompletedRepairNotifiesCustomer(t *testing.T) {
	bus, tg, board := setup(t)

	bus.Publish(context.Background(), events.RepairCompletedEvent{Ticket: ticket(1)})
	waitBus(t, bus)

	msgs := tg.messages()
	require.Len(t, msgs, 1)
	assert.EqualValues(t, 1001, msgs[0].chatID)
	assert.Contains(t, msgs[0].text, "XYZ789")
	assert.Contains(t, msgs[0].text, "120.00")
	assert.Equal(t, []string{events.RepairCompleted}, board.types)
}

func TestCompletedRepairWithoutChatIsSkipped(t *testing.T) {
	bus, tg, _ := setup(t)

	bus.Publish(context.Background(), events.RepairCompletedEvent{Ticket: ticket(2)})
	waitBus(t, bus)

	assert.Empty(t, tg.messages())
}

func TestAssignmentNotifiesMechanicUnlessClaimed(t *testing.T) {
	bus, tg, board := setup(t)

	bus.Publish(context.Background(), events.RepairMechanicAssignedEvent{Ticket: ticket(1), MechanicID: 5, Claimed: true})
	waitBus(t, bus)
	assert.Empty(t, tg.messages())

	bus.Publish(context.Background(), events.RepairMechanicAssignedEvent{Ticket: ticket(1), MechanicID: 5})
	waitBus(t, bus)

	msgs := tg.messages()
	require.Len(t, msgs, 1)
	assert.EqualValues(t, 2002, msgs[0].chatID)
	assert.Contains(t, msgs[0].text, "№10")
	assert.Len(t, board.types, 2)
}
