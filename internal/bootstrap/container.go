// Package bootstrap собирает репозитории, сервисы и слушателей событий.
// Используется и HTTP-сервером, и отдельным процессом Telegram-бота.
package bootstrap

import (
	"fmt"
	"time"

	tgcontroller "autoshop-system/internal/controllers/telegram"
	"autoshop-system/internal/listeners"
	"autoshop-system/internal/repositories"
	"autoshop-system/internal/services"
	"autoshop-system/pkg/config"
	"autoshop-system/pkg/constants"
	"autoshop-system/pkg/eventbus"
	"autoshop-system/pkg/service"
	"autoshop-system/pkg/telegram"
	appwebsocket "autoshop-system/pkg/websocket"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Repositories struct {
	Customers    repositories.CustomerRepositoryInterface
	Vehicles     repositories.VehicleRepositoryInterface
	Catalog      repositories.ServiceCatalogRepositoryInterface
	Employees    repositories.EmployeeRepositoryInterface
	Users        repositories.UserRepositoryInterface
	Appointments repositories.AppointmentRepositoryInterface
	Repairs      repositories.RepairRepositoryInterface
	Reports      repositories.ReportRepositoryInterface
	Dashboard    repositories.DashboardRepositoryInterface
	Cache        repositories.CacheRepositoryInterface
	Tx           repositories.TxManagerInterface
}

type Services struct {
	Auth         services.AuthServiceInterface
	Customers    services.CustomerServiceInterface
	Vehicles     services.VehicleServiceInterface
	Catalog      services.CatalogServiceInterface
	Employees    services.EmployeeServiceInterface
	Appointments services.AppointmentServiceInterface
	Repairs      services.RepairServiceInterface
	Income       services.IncomeServiceInterface
	Dashboard    services.DashboardServiceInterface
	Intake       services.IntakeServiceInterface
}

type Container struct {
	Config   *config.Config
	Location *time.Location
	Repos    Repositories
	Services Services
	Bus      *eventbus.Bus
	Hub      *appwebsocket.Hub
	JWT      service.JWTService
	Telegram telegram.ServiceInterface
	Bot      *tgcontroller.BotController
	Logger   *zap.Logger
}

// transitionPolicy: по умолчанию любой статус может сменить любой другой.
func transitionPolicy(cfg config.ShopConfig) constants.TransitionPolicy {
	if cfg.StrictTransitions {
		return constants.StrictTransitions
	}
	return constants.PermissiveTransitions{}
}

// New собирает приложение. tg может быть telegram.NewDisabledService, если токена нет.
func New(cfg *config.Config, db *pgxpool.Pool, redisClient *redis.Client, tg telegram.ServiceInterface, logger *zap.Logger) (*Container, error) {
	location := cfg.Shop.Location()
	schedule, err := services.NewSlotSchedule(cfg.Shop.Opening, cfg.Shop.Closing, cfg.Shop.SlotMinutes)
	if err != nil {
		return nil, fmt.Errorf("неверное расписание мастерской: %w", err)
	}

	c := &Container{
		Config:   cfg,
		Location: location,
		Bus:      eventbus.New(logger),
		Hub:      appwebsocket.NewHub(logger),
		JWT:      service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, logger),
		Telegram: tg,
		Logger:   logger,
	}

	c.Repos = Repositories{
		Customers:    repositories.NewCustomerRepository(db, logger),
		Vehicles:     repositories.NewVehicleRepository(db, logger),
		Catalog:      repositories.NewServiceCatalogRepository(db, logger),
		Employees:    repositories.NewEmployeeRepository(db, logger),
		Users:        repositories.NewUserRepository(db, logger),
		Appointments: repositories.NewAppointmentRepository(db, logger),
		Repairs:      repositories.NewRepairRepository(db, location, logger),
		Reports:      repositories.NewReportRepository(db, location, logger),
		Dashboard:    repositories.NewDashboardRepository(db, logger),
		Cache:        repositories.NewRedisCacheRepository(redisClient),
		Tx:           repositories.NewTxManager(db),
	}
	r := c.Repos

	appointments := services.NewAppointmentService(r.Appointments, r.Customers, r.Catalog, schedule, location, nil, logger)
	income := services.NewIncomeService(r.Repairs, r.Reports, location, logger)
	c.Services = Services{
		Auth:         services.NewAuthService(r.Users, r.Customers, r.Cache, r.Tx, c.JWT, logger),
		Customers:    services.NewCustomerService(r.Customers, logger),
		Vehicles:     services.NewVehicleService(r.Vehicles, r.Customers, logger),
		Catalog:      services.NewCatalogService(r.Catalog, logger),
		Employees:    services.NewEmployeeService(r.Employees, r.Users, r.Tx, logger),
		Appointments: appointments,
		Repairs: services.NewRepairService(
			r.Repairs, r.Vehicles, r.Catalog, r.Employees,
			transitionPolicy(cfg.Shop), schedule, location, c.Bus, logger,
		),
		Income:    income,
		Dashboard: services.NewDashboardService(r.Dashboard, r.Repairs, r.Vehicles, r.Customers, appointments, income, logger),
		Intake: services.NewIntakeService(
			r.Tx, r.Customers, r.Vehicles, r.Repairs, r.Catalog,
			appointments, schedule, location, nil, c.Bus, logger,
		),
	}

	listeners.NewNotificationListener(tg, c.Hub, r.Customers, r.Employees, logger).Register(c.Bus)

	c.Bot = tgcontroller.NewBotController(
		c.Services.Intake, tg, r.Cache,
		cfg.Telegram.WebhookSecret, cfg.Telegram.StateTTL, logger,
	)
	return c, nil
}
