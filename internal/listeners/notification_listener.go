package listeners

import (
	"context"
	"fmt"
	"html"

	"autoshop-system/internal/entities"
	"autoshop-system/internal/events"
	"autoshop-system/internal/repositories"
	"autoshop-system/pkg/eventbus"
	"autoshop-system/pkg/telegram"
	"autoshop-system/pkg/websocket"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Broadcaster: часть websocket.Hub, нужная слушателю.
type Broadcaster interface {
	Broadcast(messageType string, payload interface{}) error
}

// NotificationListener рассылает уведомления о ремонтах:
// клиенту и механику в Telegram, сотрудникам на панель по WebSocket.
type NotificationListener struct {
	telegram     telegram.ServiceInterface
	board        Broadcaster
	customerRepo repositories.CustomerRepositoryInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	logger       *zap.Logger
}

func NewNotificationListener(
	tg telegram.ServiceInterface,
	board Broadcaster,
	customerRepo repositories.CustomerRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{
		telegram:     tg,
		board:        board,
		customerRepo: customerRepo,
		employeeRepo: employeeRepo,
		logger:       logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.RepairCompleted, l.handleRepairCompleted)
	bus.Subscribe(events.RepairMechanicAssigned, l.handleMechanicAssigned)
	bus.Subscribe(eventbus.Wildcard, l.handleBoard)
	l.logger.Info("NotificationListener подписан на события ремонтов")
}

func (l *NotificationListener) handleRepairCompleted(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RepairCompletedEvent)
	if !ok {
		return nil
	}
	customer, err := l.customerRepo.FindCustomer(ctx, e.Ticket.CustomerID)
	if err != nil {
		return fmt.Errorf("клиент заявки %d: %w", e.Ticket.ID, err)
	}
	if customer.TelegramChatID == nil || *customer.TelegramChatID == 0 {
		l.logger.Debug("У клиента нет Telegram, уведомление о готовности пропущено", zap.Uint64("customerID", customer.ID))
		return nil
	}
	return l.telegram.SendMessageEx(ctx, *customer.TelegramChatID, completedMessage(customer, e.Ticket), telegram.WithHTML())
}

func (l *NotificationListener) handleMechanicAssigned(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RepairMechanicAssignedEvent)
	if !ok || e.Claimed {
		return nil
	}
	mechanic, err := l.employeeRepo.FindEmployee(ctx, e.MechanicID)
	if err != nil {
		return fmt.Errorf("механик %d: %w", e.MechanicID, err)
	}
	if mechanic.TelegramChatID == nil || *mechanic.TelegramChatID == 0 {
		return nil
	}
	return l.telegram.SendMessageEx(ctx, *mechanic.TelegramChatID, assignedMessage(e.Ticket), telegram.WithHTML())
}

func (l *NotificationListener) handleBoard(ctx context.Context, event eventbus.Event) error {
	payload, ok := boardPayload(event)
	if !ok {
		return nil
	}
	return l.board.Broadcast(event.Name(), payload)
}

func boardPayload(event eventbus.Event) (websocket.RepairPayload, bool) {
	var (
		ticket  entities.RepairTicket
		message string
	)
	switch e := event.(type) {
	case events.RepairCreatedEvent:
		ticket, message = e.Ticket, "Новая заявка"
	case events.RepairStatusChangedEvent:
		ticket = e.Ticket
		message = fmt.Sprintf("Статус: %s → %s", e.From.Label(), e.To.Label())
	case events.RepairCompletedEvent:
		ticket, message = e.Ticket, "Ремонт завершён"
	case events.RepairMechanicAssignedEvent:
		ticket, message = e.Ticket, "Назначен механик"
		if e.Claimed {
			message = "Механик взял заявку"
		}
	default:
		return websocket.RepairPayload{}, false
	}
	return websocket.RepairPayload{
		EventID:    uuid.NewString(),
		RepairID:   ticket.ID,
		Status:     string(ticket.Status),
		StatusText: ticket.Status.Label(),
		Plate:      ticket.Plate,
		Customer:   ticket.CustomerName,
		Service:    ticket.ServiceName,
		MechanicID: ticket.MechanicID,
		Mechanic:   ticket.MechanicName,
		Message:    message,
	}, true
}

func completedMessage(customer *entities.Customer, ticket entities.RepairTicket) string {
	return fmt.Sprintf(
		"✅ <b>%s</b>, ремонт вашего автомобиля <b>%s</b> завершён.\nУслуга: %s\nСтоимость: %s\nМожно забирать машину.",
		html.EscapeString(customer.FirstName),
		html.EscapeString(ticket.Plate),
		html.EscapeString(ticket.ServiceName),
		ticket.ServicePrice.StringFixed(2),
	)
}

func assignedMessage(ticket entities.RepairTicket) string {
	msg := fmt.Sprintf(
		"🔧 Вам назначена заявка <b>№%d</b>\nАвтомобиль: %s\nУслуга: %s\nКлиент: %s",
		ticket.ID,
		html.EscapeString(ticket.Plate),
		html.EscapeString(ticket.ServiceName),
		html.EscapeString(ticket.CustomerName),
	)
	if ticket.ScheduledDate != nil && ticket.ScheduledSlot != nil {
		msg += fmt.Sprintf("\nЗапись: %s %s", ticket.ScheduledDate.Format("02.01.2006"), *ticket.ScheduledSlot)
	}
	return msg
}
