package controllers

import (
	"net/http"

	apperrors "autoshop-system/pkg/errors"

	"github.com/labstack/echo/v4"
)

// bindAndValidate разбирает тело запроса в payload и прогоняет валидатор.
func bindAndValidate(ctx echo.Context, payload interface{}) error {
	if err := ctx.Bind(payload); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных", err, nil)
	}
	return ctx.Validate(payload)
}
