// Команда bot запускает бота приёмки в режиме long polling,
// когда вебхук недоступен (локальная разработка, сервер без публичного адреса).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autoshop-system/internal/bootstrap"
	"autoshop-system/internal/dto"
	"autoshop-system/pkg/config"
	"autoshop-system/pkg/database/postgresql"
	applogger "autoshop-system/pkg/logger"
	"autoshop-system/pkg/telegram"

	"github.com/go-redis/redis/v8"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const updateTimeout = 60

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if cfg.Telegram.BotToken == "" {
		logger.Fatal("TELEGRAM_BOT_TOKEN не задан")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Fatal("Не удалось подключиться к Telegram API", zap.Error(err))
	}
	// Вебхук и getUpdates взаимоисключающие.
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		logger.Warn("Не удалось снять вебхук", zap.Error(err))
	}

	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err))
	}
	defer redisClient.Close()

	container, err := bootstrap.New(cfg, dbConn, redisClient, telegram.NewService(api, logger), logger)
	if err != nil {
		logger.Fatal("не удалось собрать приложение", zap.Error(err))
	}
	go container.Bot.StartCleanup(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout
	updates := api.GetUpdatesChan(u)
	logger.Info("🤖 Бот запущен", zap.String("username", api.Self.UserName))

	// Обновления обрабатываются по порядку, иначе шаги одного диалога могут перемешаться.
	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			waitCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := container.Bus.Wait(waitCtx); err != nil {
				logger.Warn("Не все обработчики событий завершились", zap.Error(err))
			}
			cancel()
			logger.Info("Бот остановлен")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			container.Bot.HandleUpdate(ctx, toUpdate(update))
		}
	}
}

func toMessage(m *tgbotapi.Message) *dto.TelegramMessage {
	if m == nil {
		return nil
	}
	msg := &dto.TelegramMessage{
		MessageID: m.MessageID,
		Text:      m.Text,
	}
	if m.Chat != nil {
		msg.Chat.ID = m.Chat.ID
	}
	if m.From != nil {
		msg.From = dto.TelegramUser{ID: m.From.ID, FirstName: m.From.FirstName, Username: m.From.UserName}
	}
	return msg
}

// toUpdate переводит обновление tgbotapi в тот же вид, что приходит во вебхук.
func toUpdate(u tgbotapi.Update) dto.TelegramUpdate {
	update := dto.TelegramUpdate{UpdateID: u.UpdateID, Message: toMessage(u.Message)}
	if q := u.CallbackQuery; q != nil {
		update.CallbackQuery = &dto.TelegramCallbackQuery{
			ID:      q.ID,
			Message: toMessage(q.Message),
			Data:    q.Data,
		}
		if q.From != nil {
			update.CallbackQuery.From = dto.TelegramUser{ID: q.From.ID, FirstName: q.From.FirstName, Username: q.From.UserName}
		}
	}
	return update
}
