// Файл: pkg/utils/context_utils.go

package utils

import (
	"context"
	"time"

	"autoshop-system/pkg/constants"
	"autoshop-system/pkg/contextkeys"
	apperrors "autoshop-system/pkg/errors"

	"github.com/labstack/echo/v4"
)

// Actor: аутентифицированный пользователь текущего запроса.
type Actor struct {
	UserID     uint64
	Role       constants.Role
	EmployeeID *uint64
	CustomerID *uint64
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	ctx = context.WithValue(ctx, contextkeys.UserIDKey, actor.UserID)
	ctx = context.WithValue(ctx, contextkeys.RoleKey, actor.Role)
	if actor.EmployeeID != nil {
		ctx = context.WithValue(ctx, contextkeys.EmployeeIDKey, *actor.EmployeeID)
	}
	if actor.CustomerID != nil {
		ctx = context.WithValue(ctx, contextkeys.CustomerIDKey, *actor.CustomerID)
	}
	return ctx
}

// WithSystemActor помечает внутренний вызов (бот, CLI, сидеры), которому не нужен пользователь.
func WithSystemActor(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextkeys.SystemKey, true)
}

func IsSystemCtx(ctx context.Context) bool {
	system, _ := ctx.Value(contextkeys.SystemKey).(bool)
	return system
}

func GetActorFromCtx(ctx context.Context) (Actor, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok {
		return Actor{}, apperrors.ErrUserIDNotFoundInContext
	}
	role, ok := ctx.Value(contextkeys.RoleKey).(constants.Role)
	if !ok {
		return Actor{}, apperrors.ErrUnauthorized
	}
	actor := Actor{UserID: userID, Role: role}
	if id, ok := ctx.Value(contextkeys.EmployeeIDKey).(uint64); ok {
		actor.EmployeeID = &id
	}
	if id, ok := ctx.Value(contextkeys.CustomerIDKey).(uint64); ok {
		actor.CustomerID = &id
	}
	return actor, nil
}

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func ContextWithTimeout(ctx echo.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request().Context(), timeout)
}
