package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service: услуга из каталога мастерской.
type Service struct {
	ID              uint64          `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Description     *string         `json:"description,omitempty" db:"description"`
	Price           decimal.Decimal `json:"price" db:"price"`
	DurationMinutes int             `json:"duration_minutes" db:"duration_minutes"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}
