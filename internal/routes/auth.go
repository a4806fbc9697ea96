package routes

import (
	"autoshop-system/internal/bootstrap"
	"autoshop-system/internal/controllers"
	"autoshop-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runAuthRouter(api *echo.Group, c *bootstrap.Container, authMW *middleware.AuthMiddleware) {
	authCtrl := controllers.NewAuthController(c.Services.Auth, c.JWT, c.Logger)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/register", authCtrl.Register)
		authGroup.POST("/refresh_token", authCtrl.RefreshToken)
		authGroup.POST("/logout", authCtrl.Logout)
		authGroup.GET("/me", authCtrl.Me, authMW.Auth)
	}
}
