package telegram

import (
	"context"

	"go.uber.org/zap"
)

// disabledService используется, когда TELEGRAM_BOT_TOKEN не задан:
// сообщения только пишутся в лог.
type disabledService struct {
	logger *zap.Logger
}

func NewDisabledService(logger *zap.Logger) ServiceInterface {
	return &disabledService{logger: logger}
}

func (s *disabledService) SendMessage(ctx context.Context, chatID int64, text string) error {
	s.logger.Debug("Telegram отключён, сообщение не отправлено", zap.Int64("chat_id", chatID), zap.String("text", text))
	return nil
}

func (s *disabledService) SendMessageEx(ctx context.Context, chatID int64, text string, options ...MessageOption) error {
	return s.SendMessage(ctx, chatID, text)
}

func (s *disabledService) AnswerCallbackQuery(ctx context.Context, callbackQueryID string, text string) error {
	return nil
}

func (s *disabledService) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, options ...MessageOption) error {
	return s.SendMessage(ctx, chatID, text)
}

func (s *disabledService) EditOrSendMessage(ctx context.Context, chatID int64, messageID int, text string, options ...MessageOption) error {
	return s.SendMessage(ctx, chatID, text)
}
