package entities

import "time"

type Customer struct {
	ID             uint64    `json:"id" db:"id"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	Phone          string    `json:"phone" db:"phone"`
	Address        string    `json:"address" db:"address"`
	Email          string    `json:"email" db:"email"`
	TelegramChatID *int64    `json:"telegram_chat_id,omitempty" db:"telegram_chat_id"`
	RegisteredAt   time.Time `json:"registered_at" db:"registered_at"`
}

func (c Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
