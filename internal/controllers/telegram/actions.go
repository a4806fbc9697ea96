package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"autoshop-system/internal/dto"
	"autoshop-system/pkg/constants"
	"autoshop-system/pkg/customvalidator"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/telegram"
	"autoshop-system/pkg/utils"
)

const (
	callbackService = "service_"
	callbackDate    = "date_"
	callbackTime    = "time_"
	callbackConfirm = "confirm_"

	slotsPerRow = 4
)

var prompts = map[dto.IntakeStep]string{
	dto.IntakeStepPhone:   "📞 Введите номер телефона, например +56 9 1234 5678:",
	dto.IntakeStepName:    "👤 Как вас зовут? (имя и фамилия)",
	dto.IntakeStepBrand:   "🚗 Марка автомобиля:",
	dto.IntakeStepModel:   "Модель автомобиля:",
	dto.IntakeStepYear:    "📅 Год выпуска:",
	dto.IntakeStepPlate:   "🔢 Госномер автомобиля:",
	dto.IntakeStepService: "🛠 Выберите услугу:",
	dto.IntakeStepDate:    "📆 Выберите день:",
	dto.IntakeStepTime:    "🕒 Выберите время:",
}

var weekdays = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// handleMessage обрабатывает текст: команды и ответы на текстовые шаги.
func (c *BotController) handleMessage(ctx context.Context, chatID int64, text string) error {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "/") {
		return c.handleCommand(ctx, chatID, text)
	}

	state, err := c.getState(ctx, chatID)
	if err != nil {
		return err
	}
	if state == nil {
		return c.tgService.SendMessage(ctx, chatID, "Чтобы записаться на ремонт, отправьте /start.")
	}

	next, problem := c.applyText(state, text)
	if problem != "" {
		return c.tgService.SendMessage(ctx, chatID, "⚠️ "+problem+"\n\n"+prompts[state.Step])
	}
	state.Step = next
	if err := c.setState(ctx, chatID, state); err != nil {
		return err
	}
	return c.askStep(ctx, chatID, 0, state)
}

// applyText проверяет ответ на текущий шаг. При непустом problem шаг переспрашивается.
func (c *BotController) applyText(state *dto.IntakeState, text string) (dto.IntakeStep, string) {
	switch state.Step {
	case dto.IntakeStepPhone:
		phone := utils.NormalizePhone(text)
		if !customvalidator.IsValidPhone(phone) {
			return state.Step, "Номер телефона должен содержать не меньше 8 цифр."
		}
		state.Phone = phone
		return dto.IntakeStepName, ""
	case dto.IntakeStepName:
		if len([]rune(text)) < 3 {
			return state.Step, "Имя слишком короткое."
		}
		state.Name = text
		return dto.IntakeStepBrand, ""
	case dto.IntakeStepBrand:
		if text == "" {
			return state.Step, "Укажите марку."
		}
		state.Brand = text
		return dto.IntakeStepModel, ""
	case dto.IntakeStepModel:
		if text == "" {
			return state.Step, "Укажите модель."
		}
		state.Model = text
		return dto.IntakeStepYear, ""
	case dto.IntakeStepYear:
		year, err := strconv.Atoi(text)
		maxYear := c.now().In(c.intake.Location()).Year() + 1
		if err != nil || year < 1900 || year > maxYear {
			return state.Step, fmt.Sprintf("Год должен быть числом от 1900 до %d.", maxYear)
		}
		state.Year = year
		return dto.IntakeStepPlate, ""
	case dto.IntakeStepPlate:
		plate := utils.NormalizePlate(text)
		if plate == "" {
			return state.Step, "Укажите госномер."
		}
		state.Plate = plate
		return dto.IntakeStepService, ""
	}
	// На шагах с кнопками текст не принимаем.
	return state.Step, "Пожалуйста, воспользуйтесь кнопками."
}

// askStep отправляет вопрос текущего шага. При messageID > 0 редактирует сообщение с кнопками.
func (c *BotController) askStep(ctx context.Context, chatID int64, messageID int, state *dto.IntakeState) error {
	switch state.Step {
	case dto.IntakeStepService:
		return c.askService(ctx, chatID, messageID)
	case dto.IntakeStepDate:
		return c.askDate(ctx, chatID, messageID, "")
	case dto.IntakeStepTime:
		return c.askTime(ctx, chatID, messageID, state)
	case dto.IntakeStepConfirm:
		return c.askConfirm(ctx, chatID, messageID, state)
	}
	return c.tgService.SendMessage(ctx, chatID, prompts[state.Step])
}

func (c *BotController) send(ctx context.Context, chatID int64, messageID int, text string, rows [][]telegram.InlineKeyboardButton) error {
	opts := []telegram.MessageOption{telegram.WithHTML(), telegram.WithKeyboard(rows)}
	if messageID > 0 {
		return c.tgService.EditOrSendMessage(ctx, chatID, messageID, text, opts...)
	}
	return c.tgService.SendMessageEx(ctx, chatID, text, opts...)
}

func (c *BotController) askService(ctx context.Context, chatID int64, messageID int) error {
	list, err := c.intake.Services(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return c.tgService.SendMessage(ctx, chatID, "К сожалению, сейчас нет доступных услуг. Попробуйте позже.")
	}
	rows := make([][]telegram.InlineKeyboardButton, 0, len(list))
	for _, s := range list {
		rows = append(rows, []telegram.InlineKeyboardButton{{
			Text:         fmt.Sprintf("%s — %s", s.Name, s.Price.StringFixed(2)),
			CallbackData: fmt.Sprintf("%s%d", callbackService, s.ID),
		}})
	}
	return c.send(ctx, chatID, messageID, prompts[dto.IntakeStepService], rows)
}

func (c *BotController) askDate(ctx context.Context, chatID int64, messageID int, notice string) error {
	dates := c.intake.BookableDates()
	rows := make([][]telegram.InlineKeyboardButton, 0, len(dates))
	for _, d := range dates {
		rows = append(rows, []telegram.InlineKeyboardButton{{
			Text:         fmt.Sprintf("%s %s", weekdays[d.Weekday()], d.Format("02.01")),
			CallbackData: callbackDate + d.Format(constants.DateLayout),
		}})
	}
	return c.send(ctx, chatID, messageID, notice+prompts[dto.IntakeStepDate], rows)
}

func (c *BotController) askTime(ctx context.Context, chatID int64, messageID int, state *dto.IntakeState) error {
	date, err := utils.ParseDate(state.Date, c.intake.Location())
	if err != nil {
		return err
	}
	free, err := c.intake.FreeSlots(ctx, date)
	if err != nil {
		return err
	}
	if len(free) == 0 {
		state.Step = dto.IntakeStepDate
		if err := c.setState(ctx, chatID, state); err != nil {
			return err
		}
		return c.askDate(ctx, chatID, messageID, "На этот день свободного времени нет.\n")
	}

	var rows [][]telegram.InlineKeyboardButton
	for i := 0; i < len(free); i += slotsPerRow {
		end := min(i+slotsPerRow, len(free))
		row := make([]telegram.InlineKeyboardButton, 0, end-i)
		for _, slot := range free[i:end] {
			row = append(row, telegram.InlineKeyboardButton{Text: slot, CallbackData: callbackTime + slot})
		}
		rows = append(rows, row)
	}
	return c.send(ctx, chatID, messageID, prompts[dto.IntakeStepTime], rows)
}

func (c *BotController) askConfirm(ctx context.Context, chatID int64, messageID int, state *dto.IntakeState) error {
	summary := fmt.Sprintf(
		"📋 <b>Проверьте заявку</b>\n\n"+
			"Телефон: %s\nИмя: %s\nАвтомобиль: %s %s (%d), %s\nУслуга: %s\nДата: %s в %s\n\nВсё верно?",
		html.EscapeString(state.Phone),
		html.EscapeString(state.Name),
		html.EscapeString(state.Brand), html.EscapeString(state.Model), state.Year,
		html.EscapeString(state.Plate),
		html.EscapeString(state.ServiceName),
		html.EscapeString(state.Date), state.Slot,
	)
	rows := [][]telegram.InlineKeyboardButton{{
		{Text: "✅ Подтвердить", CallbackData: callbackConfirm + "yes"},
		{Text: "❌ Отменить", CallbackData: callbackConfirm + "no"},
	}}
	return c.send(ctx, chatID, messageID, summary, rows)
}

// handleCallback обрабатывает нажатия кнопок. Кнопка чужого шага считается устаревшей.
func (c *BotController) handleCallback(ctx context.Context, chatID int64, messageID int, data string) error {
	state, err := c.getState(ctx, chatID)
	if err != nil {
		return err
	}
	if state == nil {
		return c.tgService.SendMessage(ctx, chatID, "⚠️ Срок действия кнопки истёк. Начните заново: /start")
	}

	switch {
	case strings.HasPrefix(data, callbackService) && state.Step == dto.IntakeStepService:
		id, err := strconv.ParseUint(strings.TrimPrefix(data, callbackService), 10, 64)
		if err != nil {
			return c.askService(ctx, chatID, messageID)
		}
		service, err := c.intake.FindService(ctx, id)
		if err != nil {
			return c.askService(ctx, chatID, messageID)
		}
		state.ServiceID, state.ServiceName = service.ID, service.Name
		state.Step = dto.IntakeStepDate

	case strings.HasPrefix(data, callbackDate) && state.Step == dto.IntakeStepDate:
		raw := strings.TrimPrefix(data, callbackDate)
		if !c.isBookable(raw) {
			return c.askDate(ctx, chatID, messageID, "Этот день недоступен.\n")
		}
		state.Date = raw
		state.Step = dto.IntakeStepTime

	case strings.HasPrefix(data, callbackTime) && state.Step == dto.IntakeStepTime:
		state.Slot = strings.TrimPrefix(data, callbackTime)
		state.Step = dto.IntakeStepConfirm

	case data == callbackConfirm+"yes" && state.Step == dto.IntakeStepConfirm:
		return c.submit(ctx, chatID, messageID, state)

	case data == callbackConfirm+"no":
		return c.handleCancelCommand(ctx, chatID)

	default:
		return c.tgService.SendMessage(ctx, chatID, "⚠️ Эта кнопка уже неактуальна. "+prompts[state.Step])
	}

	if err := c.setState(ctx, chatID, state); err != nil {
		return err
	}
	return c.askStep(ctx, chatID, messageID, state)
}

func (c *BotController) isBookable(raw string) bool {
	for _, d := range c.intake.BookableDates() {
		if d.Format(constants.DateLayout) == raw {
			return true
		}
	}
	return false
}

func (c *BotController) submit(ctx context.Context, chatID int64, messageID int, state *dto.IntakeState) error {
	ticket, err := c.intake.SubmitRequest(ctx, dto.IntakeRequest{
		ChatID:    chatID,
		Phone:     state.Phone,
		Name:      state.Name,
		Brand:     state.Brand,
		Model:     state.Model,
		Year:      state.Year,
		Plate:     state.Plate,
		ServiceID: state.ServiceID,
		Date:      state.Date,
		Slot:      state.Slot,
	})

	var vErr *apperrors.ValidationError
	switch {
	case apperrors.IsKind(err, apperrors.KindSlotConflict):
		// Пока клиент подтверждал, время заняли: предлагаем выбрать снова.
		state.Step, state.Slot = dto.IntakeStepTime, ""
		if err := c.setState(ctx, chatID, state); err != nil {
			return err
		}
		_ = c.tgService.SendMessage(ctx, chatID, "😕 Это время только что заняли. Выберите другое.")
		return c.askTime(ctx, chatID, 0, state)
	case errors.As(err, &vErr):
		_ = c.clearState(ctx, chatID)
		return c.tgService.SendMessage(ctx, chatID, "❌ "+vErr.Message+"\nНачните заново: /start")
	case err != nil:
		return err
	}

	if err := c.clearState(ctx, chatID); err != nil {
		return err
	}
	text := fmt.Sprintf("✅ Заявка <b>№%d</b> принята!\nЖдём вас %s в %s.\nМы сообщим, когда ремонт будет готов.",
		ticket.ID, formatDate(ticket.ScheduledDate), utils.SafeDeref(ticket.ScheduledSlot))
	return c.tgService.EditOrSendMessage(ctx, chatID, messageID, text, telegram.WithHTML())
}

func formatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format("02.01.2006")
}
