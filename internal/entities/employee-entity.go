package entities

import (
	"time"

	"autoshop-system/pkg/constants"
)

type Employee struct {
	ID             uint64         `json:"id" db:"id"`
	Name           string         `json:"name" db:"name"`
	Position       string         `json:"position" db:"position"`
	Role           constants.Role `json:"role" db:"role"`
	Phone          string         `json:"phone" db:"phone"`
	Email          string         `json:"email" db:"email"`
	TelegramChatID *int64         `json:"telegram_chat_id,omitempty" db:"telegram_chat_id"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}
