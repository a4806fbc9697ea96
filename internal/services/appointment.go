package services

import (
	"context"
	"fmt"
	"time"

	"autoshop-system/internal/authz"
	"autoshop-system/internal/dto"
	"autoshop-system/internal/entities"
	"autoshop-system/internal/repositories"
	"autoshop-system/pkg/constants"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/types"
	"autoshop-system/pkg/utils"

	"go.uber.org/zap"
)

type AppointmentServiceInterface interface {
	ScheduleAppointment(ctx context.Context, customerID, serviceID uint64, date time.Time, slot string) (*entities.Appointment, error)
	RescheduleAppointment(ctx context.Context, id uint64, changes dto.UpdateAppointmentDTO) (*entities.Appointment, error)
	CancelAppointment(ctx context.Context, id uint64) error
	FindAppointment(ctx context.Context, id uint64) (*entities.Appointment, error)
	GetAppointments(ctx context.Context, filter types.Filter) ([]entities.Appointment, uint64, error)
	AvailableSlots(ctx context.Context, date time.Time) ([]string, error)
	// AppointmentsBetween: записи с from по to включительно.
	AppointmentsBetween(ctx context.Context, from, to time.Time) ([]entities.Appointment, error)
	Today() time.Time
}

type AppointmentService struct {
	repo         repositories.AppointmentRepositoryInterface
	customerRepo repositories.CustomerRepositoryInterface
	serviceRepo  repositories.ServiceCatalogRepositoryInterface
	schedule     SlotSchedule
	location     *time.Location
	now          func() time.Time
	logger       *zap.Logger
}

func NewAppointmentService(
	repo repositories.AppointmentRepositoryInterface,
	customerRepo repositories.CustomerRepositoryInterface,
	serviceRepo repositories.ServiceCatalogRepositoryInterface,
	schedule SlotSchedule,
	location *time.Location,
	now func() time.Time,
	logger *zap.Logger,
) AppointmentServiceInterface {
	if now == nil {
		now = time.Now
	}
	return &AppointmentService{
		repo:         repo,
		customerRepo: customerRepo,
		serviceRepo:  serviceRepo,
		schedule:     schedule,
		location:     location,
		now:          now,
		logger:       logger,
	}
}

func (s *AppointmentService) Today() time.Time {
	return dayIn(s.now().In(s.location), s.location)
}

// canonicalSlot приводит слот к виду сетки, иначе ошибка invalid_slot.
func (s *AppointmentService) canonicalSlot(slot string) (string, error) {
	canonical, ok := s.schedule.Canonical(slot)
	if !ok {
		return "", apperrors.NewValidationError(apperrors.KindInvalidSlot, "slot",
			"слот %q вне рабочей сетки мастерской", slot)
	}
	return canonical, nil
}

func (s *AppointmentService) checkNotPast(date time.Time) error {
	if dayIn(date, s.location).Before(s.Today()) {
		return apperrors.NewValidationError(apperrors.KindPastDate, "date",
			"нельзя записаться на прошедшую дату %s", date.Format(constants.DateLayout))
	}
	return nil
}

func (s *AppointmentService) loadRefs(ctx context.Context, a *entities.Appointment) error {
	customer, err := s.customerRepo.FindCustomer(ctx, a.CustomerID)
	if err != nil {
		return fmt.Errorf("клиент %d: %w", a.CustomerID, err)
	}
	service, err := s.serviceRepo.FindService(ctx, a.ServiceID)
	if err != nil {
		return fmt.Errorf("услуга %d: %w", a.ServiceID, err)
	}
	a.CustomerName, a.ServiceName = customer.FullName(), service.Name
	return nil
}

func (s *AppointmentService) ensureSlotFree(ctx context.Context, a *entities.Appointment) error {
	taken, err := s.repo.IsSlotTaken(ctx, a.Date, a.Slot, a.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.NewValidationError(apperrors.KindSlotConflict, "slot",
			"слот %s %s уже занят", a.Date.Format(constants.DateLayout), a.Slot)
	}
	return nil
}

func (s *AppointmentService) ScheduleAppointment(ctx context.Context, customerID, serviceID uint64, date time.Time, slot string) (*entities.Appointment, error) {
	appointment := &entities.Appointment{
		CustomerID: customerID,
		ServiceID:  serviceID,
		Date:       dayIn(date, s.location),
		Slot:       slot,
	}
	if err := authorize(ctx, authz.AppointmentsManage, appointment); err != nil {
		return nil, err
	}
	canonical, err := s.canonicalSlot(slot)
	if err != nil {
		return nil, err
	}
	appointment.Slot = canonical
	if err := s.checkNotPast(appointment.Date); err != nil {
		return nil, err
	}
	if err := s.loadRefs(ctx, appointment); err != nil {
		return nil, err
	}
	if err := s.ensureSlotFree(ctx, appointment); err != nil {
		return nil, err
	}
	if err := s.repo.CreateAppointment(ctx, appointment); err != nil {
		return nil, err
	}

	s.logger.Info("Создана запись",
		zap.Uint64("appointmentID", appointment.ID),
		zap.String("date", appointment.Date.Format(constants.DateLayout)),
		zap.String("slot", appointment.Slot),
	)
	return appointment, nil
}

func (s *AppointmentService) RescheduleAppointment(ctx context.Context, id uint64, changes dto.UpdateAppointmentDTO) (*entities.Appointment, error) {
	appointment, err := s.repo.FindAppointment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("запись %d: %w", id, err)
	}
	if err := authorize(ctx, authz.AppointmentsManage, appointment); err != nil {
		return nil, err
	}

	if changes.CustomerID.Valid {
		appointment.CustomerID = changes.CustomerID.Uint64
	}
	if changes.ServiceID.Valid {
		appointment.ServiceID = changes.ServiceID.Uint64
	}
	moved := false
	if changes.Date.Valid {
		date, err := utils.ParseDate(changes.Date.String, s.location)
		if err != nil {
			return nil, err
		}
		moved = !date.Equal(dayIn(appointment.Date, s.location))
		appointment.Date = date
	}
	if changes.Slot.Valid {
		slot, err := s.canonicalSlot(changes.Slot.String)
		if err != nil {
			return nil, err
		}
		moved = moved || slot != appointment.Slot
		appointment.Slot = slot
	}
	// Клиент не может переписать запись на другого клиента.
	if err := authorize(ctx, authz.AppointmentsManage, appointment); err != nil {
		return nil, err
	}

	// Прошедшую запись можно поправить (клиент, услуга), но не перенести в прошлое.
	if moved {
		if err := s.checkNotPast(appointment.Date); err != nil {
			return nil, err
		}
	}
	if err := s.loadRefs(ctx, appointment); err != nil {
		return nil, err
	}
	if err := s.ensureSlotFree(ctx, appointment); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateAppointment(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *AppointmentService) CancelAppointment(ctx context.Context, id uint64) error {
	appointment, err := s.repo.FindAppointment(ctx, id)
	if err != nil {
		return fmt.Errorf("запись %d: %w", id, err)
	}
	if err := authorize(ctx, authz.AppointmentsManage, appointment); err != nil {
		return err
	}
	if err := s.repo.DeleteAppointment(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Запись отменена", zap.Uint64("appointmentID", id))
	return nil
}

func (s *AppointmentService) FindAppointment(ctx context.Context, id uint64) (*entities.Appointment, error) {
	appointment, err := s.repo.FindAppointment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("запись %d: %w", id, err)
	}
	if err := authorize(ctx, authz.AppointmentsView, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *AppointmentService) GetAppointments(ctx context.Context, filter types.Filter) ([]entities.Appointment, uint64, error) {
	if err := authorize(ctx, authz.AppointmentsView, nil); err != nil {
		return nil, 0, err
	}
	return s.repo.GetAppointments(ctx, scopeToCustomer(ctx, filter))
}

func (s *AppointmentService) AvailableSlots(ctx context.Context, date time.Time) ([]string, error) {
	booked, err := s.repo.BookedSlots(ctx, dayIn(date, s.location))
	if err != nil {
		return nil, err
	}
	return s.schedule.Free(booked), nil
}

func (s *AppointmentService) AppointmentsBetween(ctx context.Context, from, to time.Time) ([]entities.Appointment, error) {
	return s.repo.GetAppointmentsBetween(ctx, dayIn(from, s.location), dayIn(to, s.location))
}
