package services

import (
	"context"
	"strings"
	"time"

	"autoshop-system/internal/authz"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/types"
	"autoshop-system/pkg/utils"
)

// authorize проверяет право актора запроса на действие с объектом.
// Внутренние вызовы помечаются utils.WithSystemActor, без актора доступ запрещён.
func authorize(ctx context.Context, permission string, target interface{}) error {
	if utils.IsSystemCtx(ctx) {
		return nil
	}
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return apperrors.ErrUnauthorized
	}
	if !authz.CanDo(permission, authz.NewContext(actor, target)) {
		return apperrors.ErrForbidden
	}
	return nil
}

// scopeToCustomer ограничивает список записями клиента, если запрос идёт от клиента.
func scopeToCustomer(ctx context.Context, filter types.Filter) types.Filter {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil || actor.CustomerID == nil {
		return filter
	}
	return filter.Set("customer_id", *actor.CustomerID)
}

// dayIn: полночь календарного дня t в часовом поясе loc.
// Берутся год, месяц и день самого значения t, без перевода.
func dayIn(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
