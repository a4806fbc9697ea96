package controllers

import (
	"net/http"

	"autoshop-system/internal/dto"
	"autoshop-system/internal/services"
	"autoshop-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type EmployeeController struct {
	employeeService services.EmployeeServiceInterface
	logger          *zap.Logger
}

func NewEmployeeController(employeeService services.EmployeeServiceInterface, logger *zap.Logger) *EmployeeController {
	return &EmployeeController{employeeService: employeeService, logger: logger}
}

func (c *EmployeeController) GetEmployees(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	list, total, err := c.employeeService.GetEmployees(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список сотрудников получен", http.StatusOK, total)
}

func (c *EmployeeController) FindEmployee(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	employee, err := c.employeeService.FindEmployee(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, employee, "Сотрудник найден", http.StatusOK)
}

func (c *EmployeeController) CreateEmployee(ctx echo.Context) error {
	var payload dto.CreateEmployeeDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	employee, err := c.employeeService.CreateEmployee(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.logger.Info("Добавлен сотрудник", zap.Uint64("employeeID", employee.ID), zap.String("role", string(employee.Role)))
	return utils.SuccessResponse(ctx, employee, "Сотрудник создан", http.StatusCreated)
}

func (c *EmployeeController) UpdateEmployee(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateEmployeeDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	employee, err := c.employeeService.UpdateEmployee(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, employee, "Сотрудник обновлён", http.StatusOK)
}

func (c *EmployeeController) DeleteEmployee(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.employeeService.DeleteEmployee(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Сотрудник удалён", http.StatusOK)
}
