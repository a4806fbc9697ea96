package entities

import "time"

type Vehicle struct {
	ID         uint64    `json:"id" db:"id"`
	CustomerID uint64    `json:"customer_id" db:"customer_id"`
	Brand      string    `json:"brand" db:"brand"`
	Model      string    `json:"model" db:"model"`
	Year       int       `json:"year" db:"year"`
	Plate      string    `json:"plate" db:"plate"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	CustomerName string `json:"customer_name,omitempty" db:"-"`
}
