package entities

import (
	"time"

	"autoshop-system/pkg/constants"

	"github.com/shopspring/decimal"
)

type RepairTicket struct {
	ID            uint64                     `json:"id" db:"id"`
	VehicleID     uint64                     `json:"vehicle_id" db:"vehicle_id"`
	ServiceID     uint64                     `json:"service_id" db:"service_id"`
	IntakeAt      time.Time                  `json:"intake_at" db:"intake_at"`
	CompletedAt   *time.Time                 `json:"completed_at,omitempty" db:"completed_at"`
	Condition     constants.VehicleCondition `json:"condition" db:"condition"`
	Status        constants.RepairStatus     `json:"status" db:"status"`
	MechanicID    *uint64                    `json:"mechanic_id,omitempty" db:"mechanic_id"`
	ScheduledDate *time.Time                 `json:"scheduled_date,omitempty" db:"scheduled_date"`
	ScheduledSlot *string                    `json:"scheduled_slot,omitempty" db:"scheduled_slot"`
	Notes         string                     `json:"notes" db:"notes"`
	UpdatedAt     time.Time                  `json:"updated_at" db:"updated_at"`

	// Поля из связанных таблиц, заполняются при чтении.
	Plate        string          `json:"plate,omitempty" db:"-"`
	CustomerID   uint64          `json:"customer_id,omitempty" db:"-"`
	CustomerName string          `json:"customer_name,omitempty" db:"-"`
	ServiceName  string          `json:"service_name,omitempty" db:"-"`
	ServicePrice decimal.Decimal `json:"service_price" db:"-"`
	MechanicName *string         `json:"mechanic_name,omitempty" db:"-"`
}
