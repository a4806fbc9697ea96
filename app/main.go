package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autoshop-system/internal/bootstrap"
	"autoshop-system/internal/routes"
	"autoshop-system/pkg/config"
	"autoshop-system/pkg/customvalidator"
	"autoshop-system/pkg/database/postgresql"
	apperrors "autoshop-system/pkg/errors"
	applogger "autoshop-system/pkg/logger"
	appmiddleware "autoshop-system/pkg/middleware"
	"autoshop-system/pkg/telegram"
	"autoshop-system/pkg/utils"

	"github.com/go-redis/redis/v8"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	appCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(appmiddleware.RequestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))

	v, err := customvalidator.New()
	if err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = v

	dbConn, err := postgresql.ConnectDB(appCtx, cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(appCtx).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	defer redisClient.Close()

	container, err := bootstrap.New(cfg, dbConn, redisClient, newTelegramService(cfg, logger), logger)
	if err != nil {
		logger.Fatal("не удалось собрать приложение", zap.Error(err))
	}
	go container.Hub.Run(appCtx)

	routes.InitRouter(appCtx, e, container)

	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-appCtx.Done()
	logger.Info("Остановка сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка при остановке HTTP-сервера", zap.Error(err))
	}
	// Дожидаемся уведомлений, которые уже в работе.
	if err := container.Bus.Wait(shutdownCtx); err != nil {
		logger.Warn("Не все обработчики событий завершились", zap.Error(err))
	}
	logger.Info("Сервер остановлен")
}

// newTelegramService: без токена уведомления только пишутся в лог.
func newTelegramService(cfg *config.Config, logger *zap.Logger) telegram.ServiceInterface {
	if cfg.Telegram.BotToken == "" {
		logger.Warn("TELEGRAM_BOT_TOKEN не задан, уведомления в Telegram отключены")
		return telegram.NewDisabledService(logger)
	}
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error("Не удалось подключиться к Telegram API, уведомления отключены", zap.Error(err))
		return telegram.NewDisabledService(logger)
	}
	return telegram.NewService(api, logger)
}
