package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"autoshop-system/internal/services"
	"autoshop-system/pkg/constants"
	"autoshop-system/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	logger           *zap.Logger
}

func NewDashboardController(ds services.DashboardServiceInterface, logger *zap.Logger) *DashboardController {
	return &DashboardController{dashboardService: ds, logger: logger}
}

func (ctrl *DashboardController) GetBossDashboard(c echo.Context) error {
	stats, err := ctrl.dashboardService.BossDashboard(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, stats, "Панель руководителя получена", http.StatusOK)
}

func (ctrl *DashboardController) GetStaffDashboard(c echo.Context) error {
	stats, err := ctrl.dashboardService.StaffDashboard(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, stats, "Панель сотрудника получена", http.StatusOK)
}

func (ctrl *DashboardController) GetCustomerDashboard(c echo.Context) error {
	stats, err := ctrl.dashboardService.CustomerDashboard(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, stats, "Панель клиента получена", http.StatusOK)
}

// GetDashboard выбирает панель по роли пользователя.
func (ctrl *DashboardController) GetDashboard(c echo.Context) error {
	actor, err := utils.GetActorFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	switch actor.Role {
	case constants.RoleBoss:
		return ctrl.GetBossDashboard(c)
	case constants.RoleCustomer:
		return ctrl.GetCustomerDashboard(c)
	default:
		return ctrl.GetStaffDashboard(c)
	}
}
