package services

import (
	"fmt"
	"strings"
	"time"

	"autoshop-system/pkg/constants"
)

// SlotSchedule описывает сетку слотов рабочего дня от открытия (включительно)
// до закрытия (не включая) с фиксированным шагом.
type SlotSchedule struct {
	opening time.Duration
	closing time.Duration
	step    time.Duration
}

func parseClock(raw string) (time.Duration, error) {
	t, err := time.Parse(constants.SlotLayout, raw)
	if err != nil {
		return 0, fmt.Errorf("время %q не в формате ЧЧ:ММ: %w", raw, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func NewSlotSchedule(opening, closing string, stepMinutes int) (SlotSchedule, error) {
	open, err := parseClock(opening)
	if err != nil {
		return SlotSchedule{}, err
	}
	closeAt, err := parseClock(closing)
	if err != nil {
		return SlotSchedule{}, err
	}
	if stepMinutes <= 0 {
		return SlotSchedule{}, fmt.Errorf("шаг слота должен быть положительным, получено %d", stepMinutes)
	}
	if closeAt <= open {
		return SlotSchedule{}, fmt.Errorf("закрытие %s должно быть позже открытия %s", closing, opening)
	}
	return SlotSchedule{opening: open, closing: closeAt, step: time.Duration(stepMinutes) * time.Minute}, nil
}

func formatClock(t time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(t.Hours()), int(t.Minutes())%60)
}

// Slots возвращает все слоты дня по возрастанию.
func (s SlotSchedule) Slots() []string {
	var slots []string
	for t := s.opening; t < s.closing; t += s.step {
		slots = append(slots, formatClock(t))
	}
	return slots
}

// Canonical приводит слот к виду из Slots ("8:00" -> "08:00").
// false, если слот не попадает в сетку.
func (s SlotSchedule) Canonical(slot string) (string, bool) {
	offset, err := parseClock(strings.TrimSpace(slot))
	if err != nil {
		return "", false
	}
	if offset < s.opening || offset >= s.closing || (offset-s.opening)%s.step != 0 {
		return "", false
	}
	return formatClock(offset), true
}

func (s SlotSchedule) Contains(slot string) bool {
	_, ok := s.Canonical(slot)
	return ok
}

// Free возвращает слоты дня, которых нет ни в одном из списков taken.
func (s SlotSchedule) Free(taken ...[]string) []string {
	busy := make(map[string]struct{})
	for _, list := range taken {
		for _, slot := range list {
			busy[slot] = struct{}{}
		}
	}
	free := make([]string, 0)
	for _, slot := range s.Slots() {
		if _, ok := busy[slot]; !ok {
			free = append(free, slot)
		}
	}
	return free
}
