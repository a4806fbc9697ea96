// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"autoshop-system/pkg/constants"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	plateRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 -]{0,19}$`)
	slotRegex  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// CustomValidator: обёртка для echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New создаёт валидатор со всеми правилами мастерской.
func New() (*CustomValidator, error) {
	v := validator.New()
	registerNullTypes(v)
	if err := RegisterCustomValidations(v); err != nil {
		return nil, err
	}
	return &CustomValidator{validator: v}, nil
}

// RegisterCustomValidations регистрирует все наши кастомные правила.
func RegisterCustomValidations(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"email":             isGoodEmailFormat,
		"phone":             isPhone,
		"plate":             isPlate,
		"slot":              isSlot,
		"date_only":         isDateOnly,
		"repair_status":     isRepairStatus,
		"vehicle_condition": isVehicleCondition,
		"role":              isRole,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// IsValidPhone: не меньше 8 цифр, допускаются +, - и пробелы.
func IsValidPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == '-' || r == ' ':
		default:
			return false
		}
	}
	return digits >= 8
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func isPhone(fl validator.FieldLevel) bool {
	return IsValidPhone(fl.Field().String())
}

func isPlate(fl validator.FieldLevel) bool {
	return plateRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

func isSlot(fl validator.FieldLevel) bool {
	return slotRegex.MatchString(fl.Field().String())
}

func isDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse(constants.DateLayout, fl.Field().String())
	return err == nil
}

func isRepairStatus(fl validator.FieldLevel) bool {
	return constants.RepairStatus(fl.Field().String()).IsValid()
}

func isVehicleCondition(fl validator.FieldLevel) bool {
	return constants.VehicleCondition(fl.Field().String()).IsValid()
}

func isRole(fl validator.FieldLevel) bool {
	return constants.Role(fl.Field().String()).IsValid()
}

// registerNullTypes учит валидатор смотреть внутрь null.String, null.Int и т.д.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return val.String
		}
		return nil
	}, null.String{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Int); ok && val.Valid {
			return val.Int
		}
		return nil
	}, null.Int{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Uint64); ok && val.Valid {
			return val.Uint64
		}
		return nil
	}, null.Uint64{})
}
