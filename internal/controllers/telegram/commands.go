package telegram

import (
	"context"
	"strings"

	"autoshop-system/internal/dto"
	"autoshop-system/pkg/telegram"
)

const helpText = "🔧 <b>Запись в автосервис</b>\n\n" +
	"Бот задаст несколько вопросов: телефон, имя, автомобиль, услугу, день и время.\n\n" +
	"/start — начать новую заявку\n" +
	"/cancel — отменить текущую заявку\n" +
	"/help — эта справка"

func (c *BotController) handleCommand(ctx context.Context, chatID int64, text string) error {
	command := strings.Fields(text)[0]
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}

	switch command {
	case "/start":
		return c.handleStartCommand(ctx, chatID)
	case "/cancel":
		return c.handleCancelCommand(ctx, chatID)
	case "/help":
		return c.tgService.SendMessageEx(ctx, chatID, helpText, telegram.WithHTML())
	default:
		return c.tgService.SendMessage(ctx, chatID, "❓ Неизвестная команда. Используйте /help.")
	}
}

// handleStartCommand сбрасывает прежний диалог и начинает с телефона.
func (c *BotController) handleStartCommand(ctx context.Context, chatID int64) error {
	if err := c.setState(ctx, chatID, &dto.IntakeState{Step: dto.IntakeStepPhone}); err != nil {
		return err
	}
	return c.tgService.SendMessageEx(ctx, chatID,
		"👋 <b>Здравствуйте!</b> Оформим заявку на ремонт.\n\n"+prompts[dto.IntakeStepPhone],
		telegram.WithHTML(), telegram.WithRemoveKeyboard())
}

func (c *BotController) handleCancelCommand(ctx context.Context, chatID int64) error {
	if err := c.clearState(ctx, chatID); err != nil {
		return err
	}
	return c.tgService.SendMessage(ctx, chatID, "Заявка отменена. Чтобы начать заново, отправьте /start.")
}
