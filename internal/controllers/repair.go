package controllers

import (
	"fmt"
	"net/http"
	"time"

	"autoshop-system/internal/dto"
	"autoshop-system/internal/entities"
	"autoshop-system/internal/services"
	"autoshop-system/pkg/constants"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type RepairController struct {
	repairService services.RepairServiceInterface
	location      *time.Location
	logger        *zap.Logger
}

func NewRepairController(repairService services.RepairServiceInterface, location *time.Location, logger *zap.Logger) *RepairController {
	return &RepairController{repairService: repairService, location: location, logger: logger}
}

func (c *RepairController) respond(ctx echo.Context, ticket *entities.RepairTicket, err error, message string, code int) error {
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.NewRepairResponse(*ticket), message, code)
}

func (c *RepairController) GetRepairs(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	list, total, err := c.repairService.GetTickets(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.NewRepairList(list), "Список ремонтов получен", http.StatusOK, total)
}

func (c *RepairController) FindRepair(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	ticket, err := c.repairService.FindTicket(ctx.Request().Context(), id)
	return c.respond(ctx, ticket, err, "Ремонт найден", http.StatusOK)
}

func (c *RepairController) CreateRepair(ctx echo.Context) error {
	var payload dto.CreateRepairDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ticket, err := c.repairService.CreateTicket(ctx.Request().Context(), payload)
	if err == nil {
		c.logger.Info("Создан ремонт через API", zap.Uint64("repairID", ticket.ID))
	}
	return c.respond(ctx, ticket, err, "Ремонт создан", http.StatusCreated)
}

func (c *RepairController) AssignMechanic(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.AssignMechanicDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ticket, err := c.repairService.AssignMechanic(ctx.Request().Context(), id, payload.MechanicID.Ptr())
	return c.respond(ctx, ticket, err, "Механик назначен", http.StatusOK)
}

// ClaimRepair: механик берёт свободную заявку на себя.
func (c *RepairController) ClaimRepair(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if actor.EmployeeID == nil {
		return utils.ErrorResponse(ctx, apperrors.ErrForbidden, c.logger)
	}

	ticket, err := c.repairService.ClaimTicket(reqCtx, id, *actor.EmployeeID)
	return c.respond(ctx, ticket, err, "Заявка взята в работу", http.StatusOK)
}

func (c *RepairController) SetStatus(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.SetRepairStatusDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ticket, err := c.repairService.SetStatus(ctx.Request().Context(), id, payload.Status)
	return c.respond(ctx, ticket, err, "Статус обновлён", http.StatusOK)
}

func (c *RepairController) SetCompletion(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.SetCompletionDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ticket, err := c.repairService.SetCompletion(ctx.Request().Context(), id, payload.CompletedAt.Ptr())
	return c.respond(ctx, ticket, err, "Дата окончания обновлена", http.StatusOK)
}

func (c *RepairController) UpdateNotes(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateRepairNotesDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ticket, err := c.repairService.UpdateNotes(ctx.Request().Context(), id, payload.Notes)
	return c.respond(ctx, ticket, err, "Заметки обновлены", http.StatusOK)
}

var repairHeaders = []string{
	"№", "Дата приёмки", "Госномер", "Клиент", "Услуга", "Стоимость",
	"Состояние", "Статус", "Механик", "Запись", "Дата окончания", "Заметки",
}

func (c *RepairController) repairRow(r entities.RepairTicket) []interface{} {
	dateFmt := "02.01.2006"
	var mechanic, scheduled, completed string
	if r.MechanicName != nil {
		mechanic = *r.MechanicName
	}
	if r.ScheduledDate != nil {
		scheduled = r.ScheduledDate.Format(dateFmt)
		if r.ScheduledSlot != nil {
			scheduled += " " + *r.ScheduledSlot
		}
	}
	if r.CompletedAt != nil {
		completed = r.CompletedAt.In(c.location).Format(dateFmt)
	}
	price, _ := r.ServicePrice.Float64()
	return []interface{}{
		r.ID, r.IntakeAt.In(c.location).Format(dateFmt + " 15:04"), r.Plate, r.CustomerName, r.ServiceName, price,
		string(r.Condition), r.Status.Label(), mechanic, scheduled, completed, r.Notes,
	}
}

// ExportRepairs выгружает ремонты по тем же фильтрам, что и список, без пагинации.
func (c *RepairController) ExportRepairs(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	filter.Limit, filter.Offset, filter.WithPagination = 0, 0, false

	list, _, err := c.repairService.GetTickets(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Ремонты"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &repairHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "L1", style)

	for i, r := range list {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := c.repairRow(r)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "E", 22)
	f.SetColWidth(sheet, "L", "L", 50)

	return writeXLSX(ctx, f, fmt.Sprintf("repairs_%s.xlsx", time.Now().In(c.location).Format(constants.DateLayout)))
}

func writeXLSX(ctx echo.Context, f *excelize.File, fileName string) error {
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
