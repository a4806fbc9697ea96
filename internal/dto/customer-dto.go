package dto

import "github.com/aarondl/null/v8"

type CreateCustomerDTO struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
	Phone     string `json:"phone" validate:"required,phone"`
	Address   string `json:"address" validate:"omitempty,max=500"`
	Email     string `json:"email" validate:"required,email"`
}

// UpdateCustomerDTO: частичное обновление, незаданные поля не меняются.
type UpdateCustomerDTO struct {
	FirstName null.String `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName  null.String `json:"last_name" validate:"omitempty,max=100"`
	Phone     null.String `json:"phone" validate:"omitempty,phone"`
	Address   null.String `json:"address" validate:"omitempty,max=500"`
	Email     null.String `json:"email" validate:"omitempty,email"`
}
