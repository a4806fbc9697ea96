package dto

import "github.com/aarondl/null/v8"

type CreateVehicleDTO struct {
	CustomerID uint64 `json:"customer_id" validate:"required,gt=0"`
	Brand      string `json:"brand" validate:"required,min=2,max=50"`
	Model      string `json:"model" validate:"required,min=2,max=50"`
	Year       int    `json:"year" validate:"required,gte=1900"`
	Plate      string `json:"plate" validate:"required,plate"`
}

type UpdateVehicleDTO struct {
	Brand null.String `json:"brand" validate:"omitempty,min=2,max=50"`
	Model null.String `json:"model" validate:"omitempty,min=2,max=50"`
	Year  null.Int    `json:"year" validate:"omitempty,gte=1900"`
	Plate null.String `json:"plate" validate:"omitempty,plate"`
}
