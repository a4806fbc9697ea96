package dto

import (
	"autoshop-system/internal/entities"
	"autoshop-system/pkg/constants"

	"github.com/aarondl/null/v8"
)

type CreateAppointmentDTO struct {
	CustomerID uint64 `json:"customer_id" validate:"required,gt=0"`
	ServiceID  uint64 `json:"service_id" validate:"required,gt=0"`
	Date       string `json:"date" validate:"required,date_only"`
	Slot       string `json:"slot" validate:"required,slot"`
}

// UpdateAppointmentDTO: перенос записи. Незаданные поля остаются прежними.
type UpdateAppointmentDTO struct {
	CustomerID null.Uint64 `json:"customer_id" validate:"omitempty,gt=0"`
	ServiceID  null.Uint64 `json:"service_id" validate:"omitempty,gt=0"`
	Date       null.String `json:"date" validate:"omitempty,date_only"`
	Slot       null.String `json:"slot" validate:"omitempty,slot"`
}

type AppointmentResponseDTO struct {
	ID           uint64 `json:"id"`
	CustomerID   uint64 `json:"customer_id"`
	CustomerName string `json:"customer_name,omitempty"`
	ServiceID    uint64 `json:"service_id"`
	ServiceName  string `json:"service_name,omitempty"`
	Date         string `json:"date"`
	Slot         string `json:"slot"`
	CreatedAt    string `json:"created_at"`
}

type AvailableSlotsDTO struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

func NewAppointmentResponse(a entities.Appointment) AppointmentResponseDTO {
	return AppointmentResponseDTO{
		ID:           a.ID,
		CustomerID:   a.CustomerID,
		CustomerName: a.CustomerName,
		ServiceID:    a.ServiceID,
		ServiceName:  a.ServiceName,
		Date:         a.Date.Format(constants.DateLayout),
		Slot:         a.Slot,
		CreatedAt:    a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func NewAppointmentList(list []entities.Appointment) []AppointmentResponseDTO {
	out := make([]AppointmentResponseDTO, 0, len(list))
	for _, a := range list {
		out = append(out, NewAppointmentResponse(a))
	}
	return out
}
