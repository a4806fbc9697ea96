package routes

import (
	"github.com/labstack/echo/v4"

	"autoshop-system/internal/authz"
	"autoshop-system/internal/bootstrap"
	"autoshop-system/internal/controllers"
	"autoshop-system/pkg/middleware"
)

func runReportRouter(secureGroup *echo.Group, c *bootstrap.Container, authMW *middleware.AuthMiddleware) {
	reportController := controllers.NewReportController(c.Services.Income, c.Location, c.Logger)

	secureGroup.GET("/reports/income", reportController.GetIncome, authMW.RequirePermission(authz.ReportsView))
}

func runDashboardRouter(secureGroup *echo.Group, c *bootstrap.Container, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewDashboardController(c.Services.Dashboard, c.Logger)

	secureGroup.GET("/dashboard", ctrl.GetDashboard)
	secureGroup.GET("/dashboard/boss", ctrl.GetBossDashboard, authMW.RequirePermission(authz.DashboardBoss))
	secureGroup.GET("/dashboard/staff", ctrl.GetStaffDashboard, authMW.RequirePermission(authz.DashboardStaff))
	secureGroup.GET("/dashboard/customer", ctrl.GetCustomerDashboard, authMW.RequirePermission(authz.DashboardCustomer))
}
