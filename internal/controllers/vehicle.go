package controllers

import (
	"net/http"

	"autoshop-system/internal/dto"
	"autoshop-system/internal/services"
	"autoshop-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type VehicleController struct {
	vehicleService services.VehicleServiceInterface
	logger         *zap.Logger
}

func NewVehicleController(vehicleService services.VehicleServiceInterface, logger *zap.Logger) *VehicleController {
	return &VehicleController{vehicleService: vehicleService, logger: logger}
}

func (c *VehicleController) GetVehicles(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	list, total, err := c.vehicleService.GetVehicles(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список автомобилей получен", http.StatusOK, total)
}

// GetCustomerVehicles: GET /api/customers/:id/vehicles
func (c *VehicleController) GetCustomerVehicles(ctx echo.Context) error {
	customerID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	filter = filter.Set("customer_id", customerID)

	list, total, err := c.vehicleService.GetVehicles(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Автомобили клиента получены", http.StatusOK, total)
}

func (c *VehicleController) FindVehicle(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	vehicle, err := c.vehicleService.FindVehicle(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, vehicle, "Автомобиль найден", http.StatusOK)
}

func (c *VehicleController) CreateVehicle(ctx echo.Context) error {
	var payload dto.CreateVehicleDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	vehicle, err := c.vehicleService.CreateVehicle(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, vehicle, "Автомобиль добавлен", http.StatusCreated)
}

func (c *VehicleController) UpdateVehicle(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateVehicleDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	vehicle, err := c.vehicleService.UpdateVehicle(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, vehicle, "Автомобиль обновлён", http.StatusOK)
}

func (c *VehicleController) DeleteVehicle(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.vehicleService.DeleteVehicle(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Автомобиль удалён", http.StatusOK)
}
