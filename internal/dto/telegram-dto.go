package dto

// IntakeStep: шаг диалога приёмки автомобиля через бота.
type IntakeStep string

const (
	IntakeStepPhone   IntakeStep = "phone"
	IntakeStepName    IntakeStep = "name"
	IntakeStepBrand   IntakeStep = "brand"
	IntakeStepModel   IntakeStep = "model"
	IntakeStepYear    IntakeStep = "year"
	IntakeStepPlate   IntakeStep = "plate"
	IntakeStepService IntakeStep = "service"
	IntakeStepDate    IntakeStep = "date"
	IntakeStepTime    IntakeStep = "time"
	IntakeStepConfirm IntakeStep = "confirm"
)

// IntakeState хранится в Redis между сообщениями одного чата.
type IntakeState struct {
	Step        IntakeStep `json:"step"`
	Phone       string     `json:"phone,omitempty"`
	Name        string     `json:"name,omitempty"`
	Brand       string     `json:"brand,omitempty"`
	Model       string     `json:"model,omitempty"`
	Year        int        `json:"year,omitempty"`
	Plate       string     `json:"plate,omitempty"`
	ServiceID   uint64     `json:"service_id,omitempty"`
	ServiceName string     `json:"service_name,omitempty"`
	Date        string     `json:"date,omitempty"`
	Slot        string     `json:"slot,omitempty"`
	MessageID   int        `json:"message_id,omitempty"`
}

// IntakeRequest: собранная заявка, которую бот отдаёт в сервис приёмки.
type IntakeRequest struct {
	ChatID    int64
	Phone     string
	Name      string
	Brand     string
	Model     string
	Year      int
	Plate     string
	ServiceID uint64
	Date      string
	Slot      string
}

// --- Входящие обновления Telegram (webhook) ---

type TelegramUpdate struct {
	UpdateID      int                    `json:"update_id"`
	Message       *TelegramMessage       `json:"message,omitempty"`
	CallbackQuery *TelegramCallbackQuery `json:"callback_query,omitempty"`
}

type TelegramMessage struct {
	MessageID int          `json:"message_id"`
	From      TelegramUser `json:"from"`
	Chat      TelegramChat `json:"chat"`
	Text      string       `json:"text"`
}

type TelegramCallbackQuery struct {
	ID      string           `json:"id"`
	From    TelegramUser     `json:"from"`
	Message *TelegramMessage `json:"message,omitempty"`
	Data    string           `json:"data"`
}

type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}

type TelegramChat struct {
	ID int64 `json:"id"`
}
