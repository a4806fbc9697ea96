package entities

import "time"

// Appointment: запись клиента на услугу в конкретный слот.
// Date: календарный день (значима только дата), Slot в формате "HH:MM".
type Appointment struct {
	ID         uint64    `json:"id" db:"id"`
	CustomerID uint64    `json:"customer_id" db:"customer_id"`
	ServiceID  uint64    `json:"service_id" db:"service_id"`
	Date       time.Time `json:"date" db:"date"`
	Slot       string    `json:"slot" db:"slot"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	CustomerName string `json:"customer_name,omitempty" db:"-"`
	ServiceName  string `json:"service_name,omitempty" db:"-"`
}
