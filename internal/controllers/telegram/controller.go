package telegram

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"autoshop-system/internal/dto"
	"autoshop-system/internal/repositories"
	"autoshop-system/internal/services"
	"autoshop-system/pkg/constants"
	"autoshop-system/pkg/telegram"
	"autoshop-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	// SecretHeader: заголовок, которым Telegram подписывает вебхук.
	SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

	callbackCooldown = 500 * time.Millisecond
	handleTimeout    = 45 * time.Second
	maxConcurrent    = 50
)

// BotController ведёт диалог приёмки автомобиля в Telegram.
type BotController struct {
	intake        services.IntakeServiceInterface
	tgService     telegram.ServiceInterface
	cacheRepo     repositories.CacheRepositoryInterface
	deduplicator  *RequestDeduplicator
	webhookSecret string
	stateTTL      time.Duration
	now           func() time.Time
	logger        *zap.Logger
	sem           chan struct{}
}

func NewBotController(
	intake services.IntakeServiceInterface,
	tgService telegram.ServiceInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	webhookSecret string,
	stateTTL time.Duration,
	logger *zap.Logger,
) *BotController {
	return &BotController{
		intake:        intake,
		tgService:     tgService,
		cacheRepo:     cacheRepo,
		deduplicator:  NewRequestDeduplicator(),
		webhookSecret: webhookSecret,
		stateTTL:      stateTTL,
		now:           time.Now,
		logger:        logger,
		sem:           make(chan struct{}, maxConcurrent),
	}
}

// HandleWebhook принимает обновление и сразу отвечает 200,
// обработка идёт в фоне.
func (c *BotController) HandleWebhook(ctx echo.Context) error {
	if c.webhookSecret != "" {
		got := ctx.Request().Header.Get(SecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(c.webhookSecret)) != 1 {
			c.logger.Warn("Вебхук Telegram с неверным секретом", zap.String("ip", ctx.RealIP()))
			return ctx.NoContent(http.StatusUnauthorized)
		}
	}

	var update dto.TelegramUpdate
	if err := ctx.Bind(&update); err != nil {
		c.logger.Debug("Не удалось разобрать обновление Telegram", zap.Error(err))
		return ctx.NoContent(http.StatusOK)
	}

	go func() {
		c.sem <- struct{}{}
		defer func() { <-c.sem }()
		defer c.recoverPanic("HandleWebhook")

		bgCtx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		defer cancel()
		c.HandleUpdate(bgCtx, update)
	}()
	return ctx.NoContent(http.StatusOK)
}

// HandleUpdate обрабатывает одно обновление синхронно. Используется
// и вебхуком, и long-polling раннером.
func (c *BotController) HandleUpdate(ctx context.Context, update dto.TelegramUpdate) {
	ctx = utils.WithSystemActor(ctx)
	switch {
	case update.CallbackQuery != nil:
		query := update.CallbackQuery
		if query.Message == nil {
			return
		}
		chatID := query.Message.Chat.ID
		_ = c.tgService.AnswerCallbackQuery(ctx, query.ID, "")
		if !c.deduplicator.TryAcquire(chatID, "cb", callbackCooldown) {
			return
		}
		if err := c.handleCallback(ctx, chatID, query.Message.MessageID, query.Data); err != nil {
			c.fail(ctx, chatID, err)
		}
	case update.Message != nil:
		msg := update.Message
		if err := c.handleMessage(ctx, msg.Chat.ID, msg.Text); err != nil {
			c.fail(ctx, msg.Chat.ID, err)
		}
	}
}

// StartCleanup чистит устаревшие записи дедупликатора до отмены ctx.
func (c *BotController) StartCleanup(ctx context.Context) {
	c.deduplicator.Cleanup(ctx, time.Minute)
}

// ==================== СОСТОЯНИЕ ДИАЛОГА ====================

func stateKey(chatID int64) string {
	return fmt.Sprintf(constants.CacheKeyIntakeState, chatID)
}

// getState возвращает nil без ошибки, если диалога нет или он истёк.
func (c *BotController) getState(ctx context.Context, chatID int64) (*dto.IntakeState, error) {
	raw, err := c.cacheRepo.Get(ctx, stateKey(chatID))
	if errors.Is(err, repositories.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("чтение состояния чата %d: %w", chatID, err)
	}
	var state dto.IntakeState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		c.logger.Warn("Повреждённое состояние диалога, начинаем заново", zap.Int64("chatID", chatID), zap.Error(err))
		return nil, nil
	}
	return &state, nil
}

func (c *BotController) setState(ctx context.Context, chatID int64, state *dto.IntakeState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.cacheRepo.Set(ctx, stateKey(chatID), string(raw), c.stateTTL)
}

func (c *BotController) clearState(ctx context.Context, chatID int64) error {
	return c.cacheRepo.Del(ctx, stateKey(chatID))
}

// ==================== СЛУЖЕБНЫЕ ====================

func (c *BotController) fail(ctx context.Context, chatID int64, err error) {
	c.logger.Error("Ошибка обработки сообщения бота", zap.Int64("chatID", chatID), zap.Error(err))
	_ = c.tgService.SendMessage(ctx, chatID, "❌ Внутренняя ошибка. Попробуйте позже или начните заново: /start")
}

func (c *BotController) recoverPanic(funcName string) {
	if r := recover(); r != nil {
		c.logger.Error("PANIC в горутине бота",
			zap.String("function", funcName),
			zap.Any("panic", r),
			zap.Stack("stacktrace"))
	}
}
