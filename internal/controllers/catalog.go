package controllers

import (
	"net/http"

	"autoshop-system/internal/dto"
	"autoshop-system/internal/services"
	"autoshop-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CatalogController: справочник услуг мастерской.
type CatalogController struct {
	catalogService services.CatalogServiceInterface
	logger         *zap.Logger
}

func NewCatalogController(catalogService services.CatalogServiceInterface, logger *zap.Logger) *CatalogController {
	return &CatalogController{catalogService: catalogService, logger: logger}
}

func (c *CatalogController) GetServices(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	list, total, err := c.catalogService.GetServices(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список услуг получен", http.StatusOK, total)
}

func (c *CatalogController) FindService(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	svc, err := c.catalogService.FindService(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, svc, "Услуга найдена", http.StatusOK)
}

func (c *CatalogController) CreateService(ctx echo.Context) error {
	var payload dto.CreateServiceDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	svc, err := c.catalogService.CreateService(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, svc, "Услуга создана", http.StatusCreated)
}

func (c *CatalogController) UpdateService(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateServiceDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	svc, err := c.catalogService.UpdateService(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, svc, "Услуга обновлена", http.StatusOK)
}

func (c *CatalogController) DeleteService(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.catalogService.DeleteService(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Услуга удалена", http.StatusOK)
}
