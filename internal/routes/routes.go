package routes

import (
	"context"

	"github.com/labstack/echo/v4"

	"autoshop-system/internal/bootstrap"
	"autoshop-system/pkg/middleware"
)

// InitRouter регистрирует все маршруты API. appCtx живёт столько же, сколько сервер.
func InitRouter(appCtx context.Context, e *echo.Echo, c *bootstrap.Container) {
	logger := c.Logger
	logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(c.JWT, logger)
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, c, authMW)
	runCustomerRouter(secureGroup, c, authMW)
	runVehicleRouter(secureGroup, c, authMW)
	runCatalogRouter(secureGroup, c, authMW)
	runEmployeeRouter(secureGroup, c, authMW)
	runAppointmentRouter(secureGroup, c, authMW)
	runRepairRouter(secureGroup, c, authMW)
	runReportRouter(secureGroup, c, authMW)
	runDashboardRouter(secureGroup, c, authMW)
	runTelegramRouter(appCtx, api, c)
	runWebSocketRouter(e, c)

	logger.Info("INIT_ROUTER: Создание маршрутов завершено")
}
