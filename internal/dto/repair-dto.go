package dto

import (
	"autoshop-system/internal/entities"
	"autoshop-system/pkg/constants"

	"github.com/aarondl/null/v8"
)

type CreateRepairDTO struct {
	VehicleID     uint64  `json:"vehicle_id" validate:"required,gt=0"`
	ServiceID     uint64  `json:"service_id" validate:"required,gt=0"`
	Condition     string  `json:"condition" validate:"required"`
	Status        string  `json:"status"`
	MechanicID    *uint64 `json:"mechanic_id,omitempty" validate:"omitempty,gt=0"`
	ScheduledDate string  `json:"scheduled_date" validate:"omitempty,date_only"`
	ScheduledSlot string  `json:"scheduled_slot" validate:"omitempty,slot"`
	Notes         string  `json:"notes" validate:"omitempty,max=2000"`
}

type SetRepairStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

// AssignMechanicDTO: mechanic_id = null снимает назначение.
type AssignMechanicDTO struct {
	MechanicID null.Uint64 `json:"mechanic_id"`
}

// SetCompletionDTO: completed_at = null очищает дату окончания.
type SetCompletionDTO struct {
	CompletedAt null.Time `json:"completed_at"`
}

type UpdateRepairNotesDTO struct {
	Notes string `json:"notes" validate:"max=2000"`
}

type RepairResponseDTO struct {
	entities.RepairTicket
	StatusLabel   string  `json:"status_label"`
	ScheduledDate *string `json:"scheduled_date,omitempty"`
}

func NewRepairResponse(r entities.RepairTicket) RepairResponseDTO {
	resp := RepairResponseDTO{RepairTicket: r, StatusLabel: r.Status.Label()}
	if r.ScheduledDate != nil {
		formatted := r.ScheduledDate.Format(constants.DateLayout)
		resp.ScheduledDate = &formatted
	}
	return resp
}

func NewRepairList(list []entities.RepairTicket) []RepairResponseDTO {
	out := make([]RepairResponseDTO, 0, len(list))
	for _, r := range list {
		out = append(out, NewRepairResponse(r))
	}
	return out
}
