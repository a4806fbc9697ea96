package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	apperrors "autoshop-system/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Status: true, Message: message}
	withPagination, _ := strconv.ParseBool(ctx.QueryParam("withPagination"))
	if withPagination && len(total) > 0 {
		filter := ParseFilterFromQuery(ctx.Request().URL.Query())
		totalPages := 0
		if filter.Limit > 0 {
			totalPages = int((total[0] + uint64(filter.Limit) - 1) / uint64(filter.Limit))
		}
		pagination := map[string]interface{}{
			"total_count": total[0],
			"page":        filter.Page,
			"limit":       filter.Limit,
			"total_pages": totalPages,
		}
		response.Body = map[string]interface{}{"list": body, "pagination": pagination}
	} else {
		response.Body = body
	}
	return ctx.JSON(code, response)
}

// ErrorResponse переводит ошибку сервиса в HTTP-ответ с конвертом {status, body, message}.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil && httpErr.Code >= http.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}

		response := map[string]interface{}{
			"status":  false,
			"message": httpErr.Message,
		}
		if httpErr.Details != nil {
			response["body"] = httpErr.Details
		} else if vErr := new(apperrors.ValidationError); errors.As(httpErr.Err, &vErr) {
			response["body"] = vErr
		}
		return c.JSON(httpErr.Code, response)
	}

	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		code := http.StatusUnprocessableEntity
		if vErr.Kind == apperrors.KindSlotConflict || vErr.Kind == apperrors.KindAlreadyClaimed {
			code = http.StatusConflict
		}
		return c.JSON(code, map[string]interface{}{
			"status":  false,
			"message": vErr.Message,
			"body":    vErr,
		})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"status": false, "message": "Ошибка валидации: " + strings.Join(msgs, "; ")})
	}

	if code, ok := statusForSentinel(err); ok {
		return c.JSON(code, map[string]interface{}{"status": false, "message": err.Error()})
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"status":  false,
		"message": "Внутренняя ошибка сервера",
	})
}

func statusForSentinel(err error) (int, bool) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, true
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, true
	case errors.Is(err, apperrors.ErrAccountLocked):
		return http.StatusTooManyRequests, true
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrEmptyAuthHeader),
		errors.Is(err, apperrors.ErrInvalidAuthHeader),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenIsNotAccess),
		errors.Is(err, apperrors.ErrTokenIsNotRefresh),
		errors.Is(err, apperrors.ErrUserIDNotFoundInContext):
		return http.StatusUnauthorized, true
	}
	return 0, false
}
