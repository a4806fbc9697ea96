package controllers

import (
	"net/http"

	"autoshop-system/internal/dto"
	"autoshop-system/internal/services"
	"autoshop-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CustomerController struct {
	customerService services.CustomerServiceInterface
	logger          *zap.Logger
}

func NewCustomerController(customerService services.CustomerServiceInterface, logger *zap.Logger) *CustomerController {
	return &CustomerController{customerService: customerService, logger: logger}
}

// GetCustomers: поиск по ?search= идёт по имени, фамилии, почте и телефону.
func (c *CustomerController) GetCustomers(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	list, total, err := c.customerService.GetCustomers(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список клиентов получен", http.StatusOK, total)
}

func (c *CustomerController) FindCustomer(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	customer, err := c.customerService.FindCustomer(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, customer, "Клиент найден", http.StatusOK)
}

func (c *CustomerController) CreateCustomer(ctx echo.Context) error {
	var payload dto.CreateCustomerDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	customer, err := c.customerService.CreateCustomer(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, customer, "Клиент создан", http.StatusCreated)
}

func (c *CustomerController) UpdateCustomer(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateCustomerDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	customer, err := c.customerService.UpdateCustomer(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, customer, "Клиент обновлён", http.StatusOK)
}

func (c *CustomerController) DeleteCustomer(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.customerService.DeleteCustomer(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Клиент удалён", http.StatusOK)
}
