package errors

import (
	"errors"
	"fmt"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenNotYetValid     = fmt.Errorf("токен ещё не активен")
	ErrTokenIsNotRefresh    = fmt.Errorf("токен не является refresh-токеном")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrUnauthorized       = fmt.Errorf("неавторизован")
	ErrForbidden          = fmt.Errorf("доступ запрещён")
	ErrAccountLocked      = fmt.Errorf("слишком много попыток входа, попробуйте позже")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrConflict   = fmt.Errorf("запись уже существует")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// ValidationKind: машинно-читаемый код нарушенного правила.
type ValidationKind string

const (
	KindPastDate          ValidationKind = "past_date"
	KindSlotConflict      ValidationKind = "slot_conflict"
	KindInvalidSlot       ValidationKind = "invalid_slot"
	KindInvalidStatus     ValidationKind = "invalid_status"
	KindInvalidCondition  ValidationKind = "invalid_condition"
	KindInvalidTransition ValidationKind = "invalid_transition"
	KindInvalidMechanic   ValidationKind = "invalid_mechanic"
	KindAlreadyClaimed    ValidationKind = "already_claimed"
	KindInvalidInput      ValidationKind = "invalid_input"
)

// ValidationError: нарушение бизнес-правила, на HTTP отдаётся как 422.
type ValidationError struct {
	Kind    ValidationKind `json:"kind"`
	Field   string         `json:"field,omitempty"`
	Message string         `json:"message"`
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(kind ValidationKind, field, format string, args ...interface{}) error {
	return &ValidationError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidInputError оставлен для простых ошибок формата входных данных.
func NewInvalidInputError(format string, args ...interface{}) error {
	return NewValidationError(KindInvalidInput, "", format, args...)
}

// IsKind сообщает, является ли err ValidationError заданного вида.
func IsKind(err error, kind ValidationKind) bool {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Kind == kind
	}
	return false
}

type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: ctx}
}
