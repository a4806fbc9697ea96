package dto

import (
	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"
)

type CreateServiceDTO struct {
	Name            string          `json:"name" validate:"required,min=2,max=100"`
	Description     *string         `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes" validate:"required,gt=0"`
}

type UpdateServiceDTO struct {
	Name            null.String         `json:"name" validate:"omitempty,min=2,max=100"`
	Description     null.String         `json:"description"`
	Price           decimal.NullDecimal `json:"price"`
	DurationMinutes null.Int            `json:"duration_minutes" validate:"omitempty,gt=0"`
}
