package controllers

import (
	"net/http"
	"time"

	"autoshop-system/internal/dto"
	"autoshop-system/internal/services"
	"autoshop-system/pkg/constants"
	"autoshop-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AppointmentController struct {
	appointmentService services.AppointmentServiceInterface
	location           *time.Location
	logger             *zap.Logger
}

func NewAppointmentController(
	appointmentService services.AppointmentServiceInterface,
	location *time.Location,
	logger *zap.Logger,
) *AppointmentController {
	return &AppointmentController{appointmentService: appointmentService, location: location, logger: logger}
}

func (c *AppointmentController) GetAppointments(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	list, total, err := c.appointmentService.GetAppointments(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.NewAppointmentList(list), "Список записей получен", http.StatusOK, total)
}

func (c *AppointmentController) FindAppointment(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	appointment, err := c.appointmentService.FindAppointment(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.NewAppointmentResponse(*appointment), "Запись найдена", http.StatusOK)
}

func (c *AppointmentController) CreateAppointment(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateAppointmentDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	// Клиент записывает только себя.
	if actor, err := utils.GetActorFromCtx(reqCtx); err == nil && actor.Role == constants.RoleCustomer && actor.CustomerID != nil {
		payload.CustomerID = *actor.CustomerID
	}

	date, err := utils.ParseDate(payload.Date, c.location)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	appointment, err := c.appointmentService.ScheduleAppointment(reqCtx, payload.CustomerID, payload.ServiceID, date, payload.Slot)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.NewAppointmentResponse(*appointment), "Запись создана", http.StatusCreated)
}

func (c *AppointmentController) UpdateAppointment(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateAppointmentDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	appointment, err := c.appointmentService.RescheduleAppointment(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.NewAppointmentResponse(*appointment), "Запись перенесена", http.StatusOK)
}

func (c *AppointmentController) DeleteAppointment(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.appointmentService.CancelAppointment(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Запись отменена", http.StatusOK)
}

// AvailableSlots: GET /api/appointments/slots?date=YYYY-MM-DD, без даты берётся сегодняшний день.
func (c *AppointmentController) AvailableSlots(ctx echo.Context) error {
	date := c.appointmentService.Today()
	if raw := ctx.QueryParam("date"); raw != "" {
		parsed, err := utils.ParseDate(raw, c.location)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		date = parsed
	}

	slots, err := c.appointmentService.AvailableSlots(ctx.Request().Context(), date)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	body := dto.AvailableSlotsDTO{Date: date.Format(constants.DateLayout), Slots: slots}
	return utils.SuccessResponse(ctx, body, "Свободные слоты получены", http.StatusOK)
}
