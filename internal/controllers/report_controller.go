package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"autoshop-system/internal/dto"
	"autoshop-system/internal/entities"
	"autoshop-system/internal/services"
	"autoshop-system/pkg/constants"
	"autoshop-system/pkg/utils"
)

type ReportController struct {
	incomeService services.IncomeServiceInterface
	location      *time.Location
	logger        *zap.Logger
}

func NewReportController(incomeService services.IncomeServiceInterface, location *time.Location, logger *zap.Logger) *ReportController {
	return &ReportController{incomeService: incomeService, location: location, logger: logger}
}

// GetIncome: GET /api/reports/income?date_from=&date_to=&only_completed=&last=&format=json|xlsx
func (c *ReportController) GetIncome(ctx echo.Context) error {
	var query dto.IncomeReportQuery
	if err := bindAndValidate(ctx, &query); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filter, err := c.parseFilter(query)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.logger.Debug("Запрос отчёта о доходах", zap.Any("query", query))

	buckets, err := c.incomeService.IncomeReport(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	report := dto.NewIncomeReport(buckets)
	if query.Format == "xlsx" {
		return c.respondWithXLSX(ctx, report)
	}
	return utils.SuccessResponse(ctx, report, "Отчёт о доходах сформирован", http.StatusOK)
}

func (c *ReportController) parseFilter(query dto.IncomeReportQuery) (entities.IncomeFilter, error) {
	filter := entities.IncomeFilter{OnlyCompleted: query.OnlyCompleted, Last: query.Last}
	var err error
	if filter.DateFrom, err = utils.ParseOptionalDate(query.DateFrom, c.location); err != nil {
		return filter, err
	}
	if filter.DateTo, err = utils.ParseOptionalDate(query.DateTo, c.location); err != nil {
		return filter, err
	}
	return filter, nil
}

var incomeHeaders = []string{"Период", "Месяц", "Ремонтов", "Доход"}

func (c *ReportController) respondWithXLSX(ctx echo.Context, report dto.IncomeReportDTO) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Доходы"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &incomeHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "D1", style)

	for i, b := range report.Buckets {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		total, _ := b.Total.Float64()
		row := []interface{}{b.Period, b.Label, b.TicketCount, total}
		f.SetSheetRow(sheet, cell, &row)
	}

	totalCell, _ := excelize.CoordinatesToCellName(1, len(report.Buckets)+2)
	grand, _ := report.Total.Float64()
	totalRow := []interface{}{"Итого", "", report.TicketCount, grand}
	f.SetSheetRow(sheet, totalCell, &totalRow)
	f.SetColWidth(sheet, "B", "B", 20)

	fileName := fmt.Sprintf("income_%s.xlsx", time.Now().In(c.location).Format(constants.DateLayout))
	return writeXLSX(ctx, f, fileName)
}
