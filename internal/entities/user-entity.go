package entities

import (
	"time"

	"autoshop-system/pkg/constants"
)

// User: учётная запись для входа. Сотрудник или клиент привязываются по ссылке.
type User struct {
	ID           uint64         `json:"id" db:"id"`
	Login        string         `json:"login" db:"login"`
	PasswordHash string         `json:"-" db:"password_hash"`
	Role         constants.Role `json:"role" db:"role"`
	EmployeeID   *uint64        `json:"employee_id,omitempty" db:"employee_id"`
	CustomerID   *uint64        `json:"customer_id,omitempty" db:"customer_id"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}
