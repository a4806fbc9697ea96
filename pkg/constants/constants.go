// pkg/constants/constants.go
package constants

import "time"

//============== CACHE KEYS ==============

const (
	// Состояние диалога с ботом приёмки.
	// Формат: tg_intake_state:<chatID> -> JSON IntakeState
	CacheKeyIntakeState = "tg_intake_state:%d"

	CacheKeyLoginAttempts = "login_attempts:%d"
	CacheKeyLockout       = "lockout:%d"
)

//============== AUTH ==============

const (
	MaxLoginAttempts = 5
	LockoutDuration  = 15 * time.Minute
)

//============== DATE FORMATS ==============

const (
	DateLayout  = "2006-01-02"
	SlotLayout  = "15:04"
	MonthLayout = "2006-01"
	MonthLabel  = "01/2006"
)

//============== CUSTOMERS FROM TELEGRAM ==============

const (
	TelegramCustomerAddress     = "Клиент Telegram"
	TelegramCustomerEmailFormat = "telegram_%s_%s@bot.local"
)
