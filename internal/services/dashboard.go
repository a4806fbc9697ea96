package services

import (
	"context"
	"fmt"

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

const (
	dashboardTopN          = 5
	dashboardRecentRepairs = 10
	dashboardIncomeMonths  = 6
	upcomingDays           = 7
)

type DashboardServiceInterface interface {
	BossDashboard(ctx context.Context) (*dto.BossDashboardDTO, error)
	StaffDashboard(ctx context.Context) (*dto.StaffDashboardDTO, error)
	CustomerDashboard(ctx context.Context) (*dto.CustomerDashboardDTO, error)
}

type DashboardService struct {
	repo         repositories.DashboardRepositoryInterface
	repairRepo   repositories.RepairRepositoryInterface
	vehicleRepo  repositories.VehicleRepositoryInterface
	customerRepo repositories.CustomerRepositoryInterface
	appointments AppointmentServiceInterface
	income       IncomeServiceInterface
	logger       *zap.Logger
}

func NewDashboardService(
	repo repositories.DashboardRepositoryInterface,
	repairRepo repositories.RepairRepositoryInterface,
	vehicleRepo repositories.VehicleRepositoryInterface,
	customerRepo repositories.CustomerRepositoryInterface,
	appointments AppointmentServiceInterface,
	income IncomeServiceInterface,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{
		repo:         repo,
		repairRepo:   repairRepo,
		vehicleRepo:  vehicleRepo,
		customerRepo: customerRepo,
		appointments: appointments,
		income:       income,
		logger:       logger,
	}
}

func listFilter(limit int, filters map[string]interface{}) types.Filter {
	return types.Filter{
		Filter:         filters,
		Sort:           map[string]string{"intake_at": "desc"},
		Limit:          limit,
		WithPagination: limit > 0,
	}
}

func (s *DashboardService) repairs(ctx context.Context, limit int, filters map[string]interface{}) ([]dto.RepairResponseDTO, error) {
	list, _, err := s.repairRepo.GetRepairs(ctx, listFilter(limit, filters))
	if err != nil {
		return nil, err
	}
	return dto.NewRepairList(list), nil
}

func (s *DashboardService) todayAppointments(ctx context.Context) ([]entities.Appointment, error) {
	today := s.appointments.Today()
	return s.appointments.AppointmentsBetween(ctx, today, today)
}

func (s *DashboardService) BossDashboard(ctx context.Context) (*dto.BossDashboardDTO, error) {
	if err := authorize(ctx, authz.DashboardBoss, nil); err != nil {
		return nil, err
	}

	result := &dto.BossDashboardDTO{}
	counts, err := s.repo.GetCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("счётчики: %w", err)
	}
	result.Counts = *counts

	if result.RepairsByStatus, err = s.repo.GetCountByStatus(ctx); err != nil {
		return nil, err
	}
	if result.CompletedIncome, err = s.repo.GetCompletedIncome(ctx); err != nil {
		return nil, err
	}
	if result.MonthlyIncome, err = s.income.MonthlyIncome(ctx, entities.IncomeFilter{Last: dashboardIncomeMonths}); err != nil {
		return nil, err
	}

	today := s.appointments.Today()
	todayList, err := s.appointments.AppointmentsBetween(ctx, today, today)
	if err != nil {
		return nil, err
	}
	result.TodayAppointments = dto.NewAppointmentList(todayList)
	upcoming, err := s.appointments.AppointmentsBetween(ctx, today.AddDate(0, 0, 1), today.AddDate(0, 0, upcomingDays))
	if err != nil {
		return nil, err
	}
	result.UpcomingAppointments = dto.NewAppointmentList(upcoming)

	if result.PopularServices, err = s.repo.GetPopularServices(ctx, dashboardTopN); err != nil {
		return nil, err
	}
	if result.FrequentVehicles, err = s.repo.GetFrequentVehicles(ctx, dashboardTopN); err != nil {
		return nil, err
	}
	if result.RecentRepairs, err = s.repairs(ctx, dashboardRecentRepairs, nil); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *DashboardService) StaffDashboard(ctx context.Context) (*dto.StaffDashboardDTO, error) {
	if err := authorize(ctx, authz.DashboardStaff, nil); err != nil {
		return nil, err
	}
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.StaffDashboardDTO{MyRepairs: []dto.RepairResponseDTO{}}
	todayList, err := s.todayAppointments(ctx)
	if err != nil {
		return nil, err
	}
	result.TodayAppointments = dto.NewAppointmentList(todayList)

	active := fmt.Sprintf("%s,%s,%s,%s", constants.RepairPending, constants.RepairInProgress,
		constants.RepairAwaitingParts, constants.RepairReadyForReview)
	if actor.EmployeeID != nil {
		result.MyRepairs, err = s.repairs(ctx, 0, map[string]interface{}{
			"mechanic_id": *actor.EmployeeID,
			"status":      active,
		})
		if err != nil {
			return nil, err
		}
	}
	if result.UnassignedRepairs, err = s.repairs(ctx, 0, map[string]interface{}{
		"unassigned": "true",
		"status":     string(constants.RepairPending),
	}); err != nil {
		return nil, err
	}
	if result.InProgress, err = s.repairs(ctx, 0, map[string]interface{}{
		"status": string(constants.RepairInProgress),
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *DashboardService) CustomerDashboard(ctx context.Context) (*dto.CustomerDashboardDTO, error) {
	if err := authorize(ctx, authz.DashboardCustomer, nil); err != nil {
		return nil, err
	}
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if actor.CustomerID == nil {
		return nil, apperrors.ErrForbidden
	}
	customerID := *actor.CustomerID

	customer, err := s.customerRepo.FindCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("клиент %d: %w", customerID, err)
	}
	vehicles, _, err := s.vehicleRepo.GetVehicles(ctx, types.Filter{Filter: map[string]interface{}{"customer_id": customerID}})
	if err != nil {
		return nil, err
	}
	repairs, err := s.repairs(ctx, 0, map[string]interface{}{"customer_id": customerID})
	if err != nil {
		return nil, err
	}
	appointments, _, err := s.appointments.GetAppointments(ctx, types.Filter{
		Filter: map[string]interface{}{"date_from": s.appointments.Today().Format(constants.DateLayout)},
	})
	if err != nil {
		return nil, err
	}

	return &dto.CustomerDashboardDTO{
		Customer:     customer,
		Vehicles:     vehicles,
		Repairs:      repairs,
		Appointments: dto.NewAppointmentList(appointments),
	}, nil
}
