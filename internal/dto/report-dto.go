package dto

import (
	"autoshop-system/internal/entities"

	"github.com/shopspring/decimal"
)

// IncomeReportQuery: параметры GET /api/reports/income.
type IncomeReportQuery struct {
	DateFrom      string `query:"date_from" validate:"omitempty,date_only"`
	DateTo        string `query:"date_to" validate:"omitempty,date_only"`
	OnlyCompleted bool   `query:"only_completed"`
	Last          int    `query:"last" validate:"omitempty,oneof=6 12"`
	Format        string `query:"format" validate:"omitempty,oneof=json xlsx"`
}

type IncomeReportDTO struct {
	Buckets     []entities.IncomeBucket `json:"buckets"`
	TicketCount int                     `json:"ticket_count"`
	Total       decimal.Decimal         `json:"total"`
}

func NewIncomeReport(buckets []entities.IncomeBucket) IncomeReportDTO {
	report := IncomeReportDTO{Buckets: buckets, Total: decimal.Zero}
	if report.Buckets == nil {
		report.Buckets = []entities.IncomeBucket{}
	}
	for _, b := range buckets {
		report.TicketCount += b.TicketCount
		report.Total = report.Total.Add(b.Total)
	}
	return report
}
