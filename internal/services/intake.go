package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"autoshop-system/internal/dto"
	"autoshop-system/internal/entities"
	"autoshop-system/internal/events"
	"autoshop-system/internal/repositories"
	"autoshop-system/pkg/constants"
	"autoshop-system/pkg/customvalidator"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/eventbus"
	"autoshop-system/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BookingDays: на сколько дней вперёд бот предлагает запись.
const BookingDays = 7

const intakeNotes = "Заявка из Telegram"

type IntakeServiceInterface interface {
	// SubmitRequest в одной транзакции находит или создаёт клиента (по телефону)
	// и автомобиль (по номеру) и создаёт свободную заявку в статусе pending.
	SubmitRequest(ctx context.Context, req dto.IntakeRequest) (*entities.RepairTicket, error)
	// FreeSlots: слоты дня без записей и без активных заявок на это время.
	FreeSlots(ctx context.Context, date time.Time) ([]string, error)
	// BookableDates отдаёт дни для записи, с завтрашнего на BookingDays вперёд.
	BookableDates() []time.Time
	Services(ctx context.Context) ([]entities.Service, error)
	FindService(ctx context.Context, id uint64) (*entities.Service, error)
	Location() *time.Location
}

type IntakeService struct {
	txManager    repositories.TxManagerInterface
	customerRepo repositories.CustomerRepositoryInterface
	vehicleRepo  repositories.VehicleRepositoryInterface
	repairRepo   repositories.RepairRepositoryInterface
	serviceRepo  repositories.ServiceCatalogRepositoryInterface
	appointments AppointmentServiceInterface
	schedule     SlotSchedule
	location     *time.Location
	now          func() time.Time
	bus          eventbus.Publisher
	logger       *zap.Logger
}

func NewIntakeService(
	txManager repositories.TxManagerInterface,
	customerRepo repositories.CustomerRepositoryInterface,
	vehicleRepo repositories.VehicleRepositoryInterface,
	repairRepo repositories.RepairRepositoryInterface,
	serviceRepo repositories.ServiceCatalogRepositoryInterface,
	appointments AppointmentServiceInterface,
	schedule SlotSchedule,
	location *time.Location,
	now func() time.Time,
	bus eventbus.Publisher,
	logger *zap.Logger,
) IntakeServiceInterface {
	if now == nil {
		now = time.Now
	}
	return &IntakeService{
		txManager:    txManager,
		customerRepo: customerRepo,
		vehicleRepo:  vehicleRepo,
		repairRepo:   repairRepo,
		serviceRepo:  serviceRepo,
		appointments: appointments,
		schedule:     schedule,
		location:     location,
		now:          now,
		bus:          bus,
		logger:       logger,
	}
}

func (s *IntakeService) Location() *time.Location { return s.location }

func (s *IntakeService) today() time.Time {
	return dayIn(s.now().In(s.location), s.location)
}

func (s *IntakeService) BookableDates() []time.Time {
	today := s.today()
	dates := make([]time.Time, 0, BookingDays)
	for i := 1; i <= BookingDays; i++ {
		dates = append(dates, today.AddDate(0, 0, i))
	}
	return dates
}

func (s *IntakeService) Services(ctx context.Context) ([]entities.Service, error) {
	return s.serviceRepo.ListServices(ctx)
}

func (s *IntakeService) FindService(ctx context.Context, id uint64) (*entities.Service, error) {
	service, err := s.serviceRepo.FindService(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("услуга %d: %w", id, err)
	}
	return service, nil
}

func (s *IntakeService) FreeSlots(ctx context.Context, date time.Time) ([]string, error) {
	available, err := s.appointments.AvailableSlots(ctx, date)
	if err != nil {
		return nil, err
	}
	held, err := s.repairRepo.ScheduledSlotsTaken(ctx, dayIn(date, s.location))
	if err != nil {
		return nil, err
	}
	heldSet := make(map[string]struct{}, len(held))
	for _, slot := range held {
		heldSet[slot] = struct{}{}
	}
	free := make([]string, 0, len(available))
	for _, slot := range available {
		if _, ok := heldSet[slot]; !ok {
			free = append(free, slot)
		}
	}
	return free, nil
}

// splitName: первое слово считается именем, остальное фамилией.
func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (s *IntakeService) validate(req *dto.IntakeRequest) (time.Time, error) {
	req.Phone = utils.NormalizePhone(req.Phone)
	req.Plate = utils.NormalizePlate(req.Plate)
	req.Name = strings.TrimSpace(req.Name)

	if !customvalidator.IsValidPhone(req.Phone) {
		return time.Time{}, apperrors.NewValidationError(apperrors.KindInvalidInput, "phone", "неверный номер телефона %q", req.Phone)
	}
	if len([]rune(req.Name)) < 3 {
		return time.Time{}, apperrors.NewValidationError(apperrors.KindInvalidInput, "name", "имя слишком короткое")
	}
	if req.Plate == "" {
		return time.Time{}, apperrors.NewValidationError(apperrors.KindInvalidInput, "plate", "не указан номер автомобиля")
	}
	maxYear := s.now().In(s.location).Year() + 1
	if req.Year < 1900 || req.Year > maxYear {
		return time.Time{}, apperrors.NewValidationError(apperrors.KindInvalidInput, "year", "год выпуска должен быть от 1900 до %d", maxYear)
	}

	date, err := utils.ParseDate(req.Date, s.location)
	if err != nil {
		return time.Time{}, err
	}
	if date.Before(s.today()) {
		return time.Time{}, apperrors.NewValidationError(apperrors.KindPastDate, "date", "нельзя записаться на прошедшую дату %s", req.Date)
	}
	slot, ok := s.schedule.Canonical(req.Slot)
	if !ok {
		return time.Time{}, apperrors.NewValidationError(apperrors.KindInvalidSlot, "slot", "слот %q вне рабочей сетки мастерской", req.Slot)
	}
	req.Slot = slot
	return date, nil
}

func (s *IntakeService) SubmitRequest(ctx context.Context, req dto.IntakeRequest) (*entities.RepairTicket, error) {
	date, err := s.validate(&req)
	if err != nil {
		return nil, err
	}
	if _, err := s.FindService(ctx, req.ServiceID); err != nil {
		return nil, err
	}

	// Пока клиент шёл по шагам, слот могли занять.
	free, err := s.FreeSlots(ctx, date)
	if err != nil {
		return nil, err
	}
	if !containsString(free, req.Slot) {
		return nil, apperrors.NewValidationError(apperrors.KindSlotConflict, "slot", "слот %s %s уже занят", req.Date, req.Slot)
	}

	firstName, lastName := splitName(req.Name)
	ticket := &entities.RepairTicket{
		ServiceID:     req.ServiceID,
		Condition:     constants.ConditionRegular,
		Status:        constants.RepairPending,
		ScheduledDate: &date,
		ScheduledSlot: utils.ToPtr(req.Slot),
		Notes:         intakeNotes,
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		customer := &entities.Customer{
			FirstName:      firstName,
			LastName:       lastName,
			Phone:          req.Phone,
			Address:        constants.TelegramCustomerAddress,
			Email:          fmt.Sprintf(constants.TelegramCustomerEmailFormat, strings.TrimPrefix(req.Phone, "+"), uuid.NewString()[:8]),
			TelegramChatID: utils.ToPtr(req.ChatID),
		}
		if err := s.customerRepo.UpsertByPhone(ctx, tx, customer); err != nil {
			return fmt.Errorf("клиент: %w", err)
		}

		vehicle := &entities.Vehicle{
			CustomerID: customer.ID,
			Brand:      strings.TrimSpace(req.Brand),
			Model:      strings.TrimSpace(req.Model),
			Year:       req.Year,
			Plate:      req.Plate,
		}
		if err := s.vehicleRepo.UpsertByPlate(ctx, tx, vehicle); err != nil {
			return fmt.Errorf("автомобиль: %w", err)
		}

		ticket.VehicleID = vehicle.ID
		return s.repairRepo.CreateRepair(ctx, tx, ticket)
	})
	if err != nil {
		s.logger.Error("Не удалось создать заявку из Telegram", zap.Int64("chatID", req.ChatID), zap.Error(err))
		return nil, err
	}

	created, err := s.repairRepo.FindRepair(ctx, ticket.ID)
	if err != nil {
		return nil, fmt.Errorf("заявка %d: %w", ticket.ID, err)
	}
	s.logger.Info("Заявка из Telegram создана",
		zap.Uint64("repairID", created.ID),
		zap.String("plate", created.Plate),
		zap.String("date", req.Date),
		zap.String("slot", req.Slot),
	)
	s.bus.Publish(ctx, events.RepairCreatedEvent{Ticket: *created})
	return created, nil
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
