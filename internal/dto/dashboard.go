package dto

import (
	"autoshop-system/internal/entities"
	"autoshop-system/pkg/types"

	"github.com/shopspring/decimal"
)

type BossDashboardDTO struct {
	Counts               types.DashboardCounts    `json:"counts"`
	RepairsByStatus      []types.StatusCount      `json:"repairs_by_status"`
	CompletedIncome      decimal.Decimal          `json:"completed_income"`
	MonthlyIncome        []entities.IncomeBucket  `json:"monthly_income"`
	TodayAppointments    []AppointmentResponseDTO `json:"today_appointments"`
	UpcomingAppointments []AppointmentResponseDTO `json:"upcoming_appointments"`
	PopularServices      []types.ServiceUsage     `json:"popular_services"`
	FrequentVehicles     []types.VehicleUsage     `json:"frequent_vehicles"`
	RecentRepairs        []RepairResponseDTO      `json:"recent_repairs"`
}

type StaffDashboardDTO struct {
	TodayAppointments []AppointmentResponseDTO `json:"today_appointments"`
	MyRepairs         []RepairResponseDTO      `json:"my_repairs"`
	UnassignedRepairs []RepairResponseDTO      `json:"unassigned_repairs"`
	InProgress        []RepairResponseDTO      `json:"in_progress"`
}

type CustomerDashboardDTO struct {
	Customer     *entities.Customer       `json:"customer"`
	Vehicles     []entities.Vehicle       `json:"vehicles"`
	Repairs      []RepairResponseDTO      `json:"repairs"`
	Appointments []AppointmentResponseDTO `json:"appointments"`
}
