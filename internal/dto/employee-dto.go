package dto

import "github.com/aarondl/null/v8"

type CreateEmployeeDTO struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Position string `json:"position" validate:"omitempty,max=100"`
	Role     string `json:"role" validate:"required,role,ne=customer"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Email    string `json:"email" validate:"required,email"`
	// Если задан, создаётся учётная запись для входа.
	Login    string `json:"login" validate:"omitempty,min=3,max=150"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

type UpdateEmployeeDTO struct {
	Name           null.String `json:"name" validate:"omitempty,min=2,max=100"`
	Position       null.String `json:"position" validate:"omitempty,max=100"`
	Role           null.String `json:"role" validate:"omitempty,role"`
	Phone          null.String `json:"phone" validate:"omitempty,phone"`
	Email          null.String `json:"email" validate:"omitempty,email"`
	TelegramChatID null.Int64  `json:"telegram_chat_id"`
}
