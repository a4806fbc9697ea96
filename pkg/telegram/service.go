// Файл: pkg/telegram/service.go
package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// --- ОСНОВНОЙ ИНТЕРФЕЙС СЕРВИСА ---

type ServiceInterface interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageEx(ctx context.Context, chatID int64, text string, options ...MessageOption) error
	AnswerCallbackQuery(ctx context.Context, callbackQueryID string, text string) error
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, options ...MessageOption) error
	EditOrSendMessage(ctx context.Context, chatID int64, messageID int, text string, options ...MessageOption) error
}

// botAPI: часть tgbotapi.BotAPI, которой мы пользуемся.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Service struct {
	api    botAPI
	logger *zap.Logger
}

func NewService(api *tgbotapi.BotAPI, logger *zap.Logger) ServiceInterface {
	return &Service{api: api, logger: logger}
}

// --- ОПЦИИ СООБЩЕНИЯ ---

type InlineKeyboardButton struct {
	Text         string
	CallbackData string
}

type ReplyKeyboardButton struct {
	Text string
}

type messageOptions struct {
	parseMode      string
	inline         [][]InlineKeyboardButton
	reply          [][]ReplyKeyboardButton
	removeKeyboard bool
}

type MessageOption func(*messageOptions)

func WithKeyboard(rows [][]InlineKeyboardButton) MessageOption {
	return func(o *messageOptions) {
		if len(rows) > 0 {
			o.inline = rows
		}
	}
}

func WithReplyKeyboard(rows [][]ReplyKeyboardButton) MessageOption {
	return func(o *messageOptions) {
		if len(rows) > 0 {
			o.reply = rows
		}
	}
}

func WithRemoveKeyboard() MessageOption {
	return func(o *messageOptions) { o.removeKeyboard = true }
}

func WithMarkdownV2() MessageOption {
	return func(o *messageOptions) { o.parseMode = tgbotapi.ModeMarkdownV2 }
}

func WithHTML() MessageOption {
	return func(o *messageOptions) { o.parseMode = tgbotapi.ModeHTML }
}

func collectOptions(options []MessageOption) messageOptions {
	var o messageOptions
	for _, opt := range options {
		opt(&o)
	}
	return o
}

func (o messageOptions) inlineMarkup() *tgbotapi.InlineKeyboardMarkup {
	if len(o.inline) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(o.inline))
	for _, row := range o.inline {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.CallbackData))
		}
		rows = append(rows, buttons)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func (o messageOptions) replyMarkup() interface{} {
	if markup := o.inlineMarkup(); markup != nil {
		return *markup
	}
	if len(o.reply) > 0 {
		rows := make([][]tgbotapi.KeyboardButton, 0, len(o.reply))
		for _, row := range o.reply {
			buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, tgbotapi.NewKeyboardButton(b.Text))
			}
			rows = append(rows, buttons)
		}
		keyboard := tgbotapi.NewReplyKeyboard(rows...)
		keyboard.ResizeKeyboard = true
		return keyboard
	}
	if o.removeKeyboard {
		return tgbotapi.NewRemoveKeyboard(true)
	}
	return nil
}

// --- МЕТОДЫ ---

func (s *Service) SendMessage(ctx context.Context, chatID int64, text string) error {
	return s.SendMessageEx(ctx, chatID, EscapeTextForMarkdownV2(text), WithMarkdownV2())
}

func (s *Service) SendMessageEx(ctx context.Context, chatID int64, text string, options ...MessageOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o := collectOptions(options)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = o.parseMode
	if markup := o.replyMarkup(); markup != nil {
		msg.ReplyMarkup = markup
	}

	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage (chat %d): %w", chatID, err)
	}
	return nil
}

func (s *Service) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, options ...MessageOption) error {
	if messageID == 0 {
		return s.SendMessageEx(ctx, chatID, text, options...)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	o := collectOptions(options)

	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = o.parseMode
	edit.ReplyMarkup = o.inlineMarkup()

	if _, err := s.api.Request(edit); err != nil {
		return fmt.Errorf("telegram editMessageText (chat %d, message %d): %w", chatID, messageID, err)
	}
	return nil
}

// EditOrSendMessage редактирует сообщение, а если не вышло, отправляет новое.
func (s *Service) EditOrSendMessage(ctx context.Context, chatID int64, messageID int, text string, options ...MessageOption) error {
	if messageID == 0 {
		return s.SendMessageEx(ctx, chatID, text, options...)
	}
	err := s.EditMessageText(ctx, chatID, messageID, text, options...)
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	s.logger.Debug("Не удалось отредактировать сообщение, отправляем новое", zap.Int64("chat_id", chatID), zap.Error(err))
	return s.SendMessageEx(ctx, chatID, text, options...)
}

func (s *Service) AnswerCallbackQuery(ctx context.Context, callbackQueryID string, text string) error {
	if callbackQueryID == "" {
		return fmt.Errorf("callbackQueryID не может быть пустым")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.api.Request(tgbotapi.NewCallback(callbackQueryID, text)); err != nil {
		return fmt.Errorf("telegram answerCallbackQuery: %w", err)
	}
	return nil
}

// --- ЭКРАНИРОВАНИЕ ДЛЯ MARKDOWNV2 ---

func EscapeTextForMarkdownV2(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, text)
}

// CallbackData возвращает callback_data всех inline-кнопок из опций по порядку.
func CallbackData(options ...MessageOption) []string {
	var out []string
	for _, row := range collectOptions(options).inline {
		for _, b := range row {
			out = append(out, b.CallbackData)
		}
	}
	return out
}
