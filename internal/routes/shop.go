package routes

import (
	"context"

	"github.com/labstack/echo/v4"

	"autoshop-system/internal/authz"
	"autoshop-system/internal/bootstrap"
	"autoshop-system/internal/controllers"
	"autoshop-system/pkg/middleware"
)

func runAppointmentRouter(secureGroup *echo.Group, c *bootstrap.Container, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewAppointmentController(c.Services.Appointments, c.Location, c.Logger)
	view, manage := authMW.RequirePermission(authz.AppointmentsView), authMW.RequirePermission(authz.AppointmentsManage)

	secureGroup.GET("/appointments", ctrl.GetAppointments, view)
	secureGroup.GET("/appointments/slots", ctrl.AvailableSlots, view)
	secureGroup.GET("/appointments/:id", ctrl.FindAppointment, view)
	secureGroup.POST("/appointments", ctrl.CreateAppointment, manage)
	secureGroup.PUT("/appointments/:id", ctrl.UpdateAppointment, manage)
	secureGroup.DELETE("/appointments/:id", ctrl.DeleteAppointment, manage)
}

func runRepairRouter(secureGroup *echo.Group, c *bootstrap.Container, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewRepairController(c.Services.Repairs, c.Location, c.Logger)
	view, update := authMW.RequirePermission(authz.RepairsView), authMW.RequirePermission(authz.RepairsUpdate)

	repairs := secureGroup.Group("/repairs")
	{
		repairs.GET("", ctrl.GetRepairs, view)
		repairs.GET("/export", ctrl.ExportRepairs, view)
		repairs.GET("/:id", ctrl.FindRepair, view)
		repairs.POST("", ctrl.CreateRepair, authMW.RequirePermission(authz.RepairsCreate))
		repairs.PUT("/:id/mechanic", ctrl.AssignMechanic, authMW.RequirePermission(authz.RepairsAssign))
		repairs.POST("/:id/claim", ctrl.ClaimRepair, authMW.RequirePermission(authz.RepairsClaim))
		repairs.PUT("/:id/status", ctrl.SetStatus, authMW.RequirePermission(authz.RepairsStatus))
		repairs.PUT("/:id/completion", ctrl.SetCompletion, update)
		repairs.PUT("/:id/notes", ctrl.UpdateNotes, update)
	}
}

// runTelegramRouter: вебхук бота. Без токена бот работает только через cmd/bot.
func runTelegramRouter(appCtx context.Context, api *echo.Group, c *bootstrap.Container) {
	go c.Bot.StartCleanup(appCtx)
	api.POST("/webhooks/telegram", c.Bot.HandleWebhook)
}

func runWebSocketRouter(e *echo.Echo, c *bootstrap.Container) {
	ctrl := controllers.NewWebSocketController(c.Hub, c.JWT, c.Logger)
	e.GET("/ws", ctrl.ServeWs)
}
