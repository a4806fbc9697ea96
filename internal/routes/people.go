package routes

import (
	"github.com/labstack/echo/v4"

	"autoshop-system/internal/authz"
	"autoshop-system/internal/bootstrap"
	"autoshop-system/internal/controllers"
	"autoshop-system/pkg/middleware"
)

func runCustomerRouter(secureGroup *echo.Group, c *bootstrap.Container, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewCustomerController(c.Services.Customers, c.Logger)
	vehicleCtrl := controllers.NewVehicleController(c.Services.Vehicles, c.Logger)
	view, manage := authMW.RequirePermission(authz.CustomersView), authMW.RequirePermission(authz.CustomersManage)

	secureGroup.GET("/customers", ctrl.GetCustomers, view)
	secureGroup.GET("/customers/:id", ctrl.FindCustomer, view)
	secureGroup.GET("/customers/:id/vehicles", vehicleCtrl.GetCustomerVehicles, authMW.RequirePermission(authz.VehiclesView))
	secureGroup.POST("/customers", ctrl.CreateCustomer, manage)
	secureGroup.PUT("/customers/:id", ctrl.UpdateCustomer, manage)
	secureGroup.DELETE("/customers/:id", ctrl.DeleteCustomer, manage)
}

func runVehicleRouter(secureGroup *echo.Group, c *bootstrap.Container, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewVehicleController(c.Services.Vehicles, c.Logger)
	view, manage := authMW.RequirePermission(authz.VehiclesView), authMW.RequirePermission(authz.VehiclesManage)

	secureGroup.GET("/vehicles", ctrl.GetVehicles, view)
	secureGroup.GET("/vehicles/:id", ctrl.FindVehicle, view)
	secureGroup.POST("/vehicles", ctrl.CreateVehicle, manage)
	secureGroup.PUT("/vehicles/:id", ctrl.UpdateVehicle, manage)
	secureGroup.DELETE("/vehicles/:id", ctrl.DeleteVehicle, manage)
}

func runCatalogRouter(secureGroup *echo.Group, c *bootstrap.Container, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewCatalogController(c.Services.Catalog, c.Logger)
	view, manage := authMW.RequirePermission(authz.CatalogView), authMW.RequirePermission(authz.CatalogManage)

	secureGroup.GET("/services", ctrl.GetServices, view)
	secureGroup.GET("/services/:id", ctrl.FindService, view)
	secureGroup.POST("/services", ctrl.CreateService, manage)
	secureGroup.PUT("/services/:id", ctrl.UpdateService, manage)
	secureGroup.DELETE("/services/:id", ctrl.DeleteService, manage)
}

func runEmployeeRouter(secureGroup *echo.Group, c *bootstrap.Container, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewEmployeeController(c.Services.Employees, c.Logger)
	view, manage := authMW.RequirePermission(authz.EmployeesView), authMW.RequirePermission(authz.EmployeesManage)

	secureGroup.GET("/employees", ctrl.GetEmployees, view)
	secureGroup.GET("/employees/:id", ctrl.FindEmployee, view)
	secureGroup.POST("/employees", ctrl.CreateEmployee, manage)
	secureGroup.PUT("/employees/:id", ctrl.UpdateEmployee, manage)
	secureGroup.DELETE("/employees/:id", ctrl.DeleteEmployee, manage)
}
