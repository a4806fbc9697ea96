package dto

import "autoshop-system/internal/entities"

type LoginDTO struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RegisterCustomerDTO: самостоятельная регистрация клиента.
type RegisterCustomerDTO struct {
	CreateCustomerDTO
	Login    string `json:"login" validate:"required,min=3,max=150"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthResponseDTO struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *entities.User `json:"user"`
}
