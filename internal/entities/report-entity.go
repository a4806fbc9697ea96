package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeFilter: границы отчёта о доходах.
// DateFrom и DateTo включительно, по дате приёмки в часовом поясе мастерской.
type IncomeFilter struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	OnlyCompleted bool
	Last          int
}

// IncomeBucket: доход за календарный месяц.
type IncomeBucket struct {
	Period      string          `json:"period"`
	Label       string          `json:"label"`
	TicketCount int             `json:"ticket_count"`
	Total       decimal.Decimal `json:"total"`
}
