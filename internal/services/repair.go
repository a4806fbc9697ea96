package services

import (
	"context"
	"fmt"
	"time"

	"autoshop-system/internal/authz"
	"autoshop-system/internal/dto"
	"autoshop-system/internal/entities"
	"autoshop-system/internal/events"
	"autoshop-system/internal/repositories"
	"autoshop-system/pkg/constants"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/eventbus"
	"autoshop-system/pkg/types"
	"autoshop-system/pkg/utils"

	"go.uber.org/zap"
)

type RepairServiceInterface interface {
	CreateTicket(ctx context.Context, createDTO dto.CreateRepairDTO) (*entities.RepairTicket, error)
	// AssignMechanic назначает механика; nil возвращает заявку в общий пул.
	AssignMechanic(ctx context.Context, id uint64, mechanicID *uint64) (*entities.RepairTicket, error)
	// ClaimTicket: механик сам берёт свободную заявку.
	ClaimTicket(ctx context.Context, id uint64, mechanicID uint64) (*entities.RepairTicket, error)
	SetStatus(ctx context.Context, id uint64, status string) (*entities.RepairTicket, error)
	// SetCompletion не зависит от статуса; nil очищает дату.
	SetCompletion(ctx context.Context, id uint64, completedAt *time.Time) (*entities.RepairTicket, error)
	UpdateNotes(ctx context.Context, id uint64, notes string) (*entities.RepairTicket, error)
	FindTicket(ctx context.Context, id uint64) (*entities.RepairTicket, error)
	GetTickets(ctx context.Context, filter types.Filter) ([]entities.RepairTicket, uint64, error)
}

type RepairService struct {
	repo         repositories.RepairRepositoryInterface
	vehicleRepo  repositories.VehicleRepositoryInterface
	serviceRepo  repositories.ServiceCatalogRepositoryInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	policy       constants.TransitionPolicy
	schedule     SlotSchedule
	location     *time.Location
	bus          eventbus.Publisher
	logger       *zap.Logger
}

func NewRepairService(
	repo repositories.RepairRepositoryInterface,
	vehicleRepo repositories.VehicleRepositoryInterface,
	serviceRepo repositories.ServiceCatalogRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	policy constants.TransitionPolicy,
	schedule SlotSchedule,
	location *time.Location,
	bus eventbus.Publisher,
	logger *zap.Logger,
) RepairServiceInterface {
	if policy == nil {
		policy = constants.PermissiveTransitions{}
	}
	return &RepairService{
		repo:         repo,
		vehicleRepo:  vehicleRepo,
		serviceRepo:  serviceRepo,
		employeeRepo: employeeRepo,
		policy:       policy,
		schedule:     schedule,
		location:     location,
		bus:          bus,
		logger:       logger,
	}
}

func (s *RepairService) load(ctx context.Context, id uint64) (*entities.RepairTicket, error) {
	ticket, err := s.repo.FindRepair(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("заявка %d: %w", id, err)
	}
	return ticket, nil
}

// loadFor загружает заявку и проверяет право актора на действие с ней.
func (s *RepairService) loadFor(ctx context.Context, id uint64, permission string) (*entities.RepairTicket, error) {
	ticket, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, permission, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *RepairService) validateMechanic(ctx context.Context, mechanicID uint64) (*entities.Employee, error) {
	employee, err := s.employeeRepo.FindEmployee(ctx, mechanicID)
	if err != nil {
		return nil, fmt.Errorf("сотрудник %d: %w", mechanicID, err)
	}
	if !employee.Role.CanRepair() {
		return nil, apperrors.NewValidationError(apperrors.KindInvalidMechanic, "mechanic_id",
			"сотрудник %s (%s) не может выполнять ремонт", employee.Name, employee.Role)
	}
	return employee, nil
}

func (s *RepairService) CreateTicket(ctx context.Context, createDTO dto.CreateRepairDTO) (*entities.RepairTicket, error) {
	if err := authorize(ctx, authz.RepairsCreate, nil); err != nil {
		return nil, err
	}

	condition := constants.VehicleCondition(createDTO.Condition)
	if !condition.IsValid() {
		return nil, apperrors.NewValidationError(apperrors.KindInvalidCondition, "condition",
			"неизвестное состояние автомобиля %q", createDTO.Condition)
	}
	status := constants.RepairPending
	if createDTO.Status != "" {
		status = constants.RepairStatus(createDTO.Status)
		if !status.IsValid() {
			return nil, apperrors.NewValidationError(apperrors.KindInvalidStatus, "status",
				"неизвестный статус ремонта %q", createDTO.Status)
		}
	}

	ticket := &entities.RepairTicket{
		VehicleID:  createDTO.VehicleID,
		ServiceID:  createDTO.ServiceID,
		Condition:  condition,
		Status:     status,
		MechanicID: createDTO.MechanicID,
		Notes:      createDTO.Notes,
	}

	scheduledDate, err := utils.ParseOptionalDate(createDTO.ScheduledDate, s.location)
	if err != nil {
		return nil, err
	}
	ticket.ScheduledDate = scheduledDate
	if createDTO.ScheduledSlot != "" {
		slot, ok := s.schedule.Canonical(createDTO.ScheduledSlot)
		if !ok {
			return nil, apperrors.NewValidationError(apperrors.KindInvalidSlot, "scheduled_slot",
				"слот %q вне рабочей сетки мастерской", createDTO.ScheduledSlot)
		}
		ticket.ScheduledSlot = utils.ToPtr(slot)
	}

	if _, err := s.vehicleRepo.FindVehicle(ctx, ticket.VehicleID); err != nil {
		return nil, fmt.Errorf("автомобиль %d: %w", ticket.VehicleID, err)
	}
	if _, err := s.serviceRepo.FindService(ctx, ticket.ServiceID); err != nil {
		return nil, fmt.Errorf("услуга %d: %w", ticket.ServiceID, err)
	}
	if ticket.MechanicID != nil {
		if _, err := s.validateMechanic(ctx, *ticket.MechanicID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreateRepair(ctx, nil, ticket); err != nil {
		return nil, err
	}
	created, err := s.load(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Создана заявка на ремонт", zap.Uint64("repairID", created.ID), zap.String("plate", created.Plate))
	s.bus.Publish(ctx, events.RepairCreatedEvent{Ticket: *created})
	if created.MechanicID != nil {
		s.bus.Publish(ctx, events.RepairMechanicAssignedEvent{Ticket: *created, MechanicID: *created.MechanicID})
	}
	return created, nil
}

func (s *RepairService) AssignMechanic(ctx context.Context, id uint64, mechanicID *uint64) (*entities.RepairTicket, error) {
	ticket, err := s.loadFor(ctx, id, authz.RepairsAssign)
	if err != nil {
		return nil, err
	}
	if utils.EqualPtr(ticket.MechanicID, mechanicID) {
		return ticket, nil
	}
	if mechanicID != nil {
		if _, err := s.validateMechanic(ctx, *mechanicID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateMechanic(ctx, id, mechanicID); err != nil {
		return nil, err
	}
	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if mechanicID == nil {
		s.logger.Info("Заявка возвращена в общий пул", zap.Uint64("repairID", id))
		return updated, nil
	}
	s.logger.Info("Назначен механик", zap.Uint64("repairID", id), zap.Uint64("mechanicID", *mechanicID))
	s.bus.Publish(ctx, events.RepairMechanicAssignedEvent{Ticket: *updated, MechanicID: *mechanicID})
	return updated, nil
}

func (s *RepairService) ClaimTicket(ctx context.Context, id uint64, mechanicID uint64) (*entities.RepairTicket, error) {
	if _, err := s.loadFor(ctx, id, authz.RepairsClaim); err != nil {
		return nil, err
	}
	if _, err := s.validateMechanic(ctx, mechanicID); err != nil {
		return nil, err
	}

	claimed, err := s.repo.ClaimRepair(ctx, id, mechanicID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, apperrors.NewValidationError(apperrors.KindAlreadyClaimed, "mechanic_id",
			"заявка %d уже взята другим механиком", id)
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, events.RepairMechanicAssignedEvent{Ticket: *updated, MechanicID: mechanicID, Claimed: true})
	return updated, nil
}

func (s *RepairService) SetStatus(ctx context.Context, id uint64, rawStatus string) (*entities.RepairTicket, error) {
	status := constants.RepairStatus(rawStatus)
	if !status.IsValid() {
		return nil, apperrors.NewValidationError(apperrors.KindInvalidStatus, "status",
			"неизвестный статус ремонта %q", rawStatus)
	}

	ticket, err := s.loadFor(ctx, id, authz.RepairsStatus)
	if err != nil {
		return nil, err
	}
	if ticket.Status == status {
		return ticket, nil
	}
	if !s.policy.Allows(ticket.Status, status) {
		return nil, apperrors.NewValidationError(apperrors.KindInvalidTransition, "status",
			"переход %s → %s запрещён", ticket.Status, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Статус заявки изменён",
		zap.Uint64("repairID", id),
		zap.String("from", string(ticket.Status)),
		zap.String("to", string(status)),
	)
	s.bus.Publish(ctx, events.RepairStatusChangedEvent{Ticket: *updated, From: ticket.Status, To: status})
	if status == constants.RepairCompleted {
		s.bus.Publish(ctx, events.RepairCompletedEvent{Ticket: *updated})
	}
	return updated, nil
}

func (s *RepairService) SetCompletion(ctx context.Context, id uint64, completedAt *time.Time) (*entities.RepairTicket, error) {
	if _, err := s.loadFor(ctx, id, authz.RepairsStatus); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCompletion(ctx, id, completedAt); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *RepairService) UpdateNotes(ctx context.Context, id uint64, notes string) (*entities.RepairTicket, error) {
	if _, err := s.loadFor(ctx, id, authz.RepairsUpdate); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateNotes(ctx, id, notes); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *RepairService) FindTicket(ctx context.Context, id uint64) (*entities.RepairTicket, error) {
	return s.loadFor(ctx, id, authz.RepairsView)
}

func (s *RepairService) GetTickets(ctx context.Context, filter types.Filter) ([]entities.RepairTicket, uint64, error) {
	if err := authorize(ctx, authz.RepairsView, nil); err != nil {
		return nil, 0, err
	}
	if status, ok := filter.String("status"); ok {
		for _, raw := range splitCSV(status) {
			if !constants.RepairStatus(raw).IsValid() {
				return nil, 0, apperrors.NewValidationError(apperrors.KindInvalidStatus, "status",
					"неизвестный статус ремонта %q", raw)
			}
		}
	}
	return s.repo.GetRepairs(ctx, scopeToCustomer(ctx, filter))
}
