package controllers

import (
	"net/http"
	"time"

	"autoshop-system/internal/dto"
	"autoshop-system/internal/services"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/service"
	"autoshop-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const refreshCookieName = "refreshToken"

type AuthController struct {
	authService services.AuthServiceInterface
	jwtSvc      service.JWTService
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, jwtSvc service.JWTService, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, jwtSvc: jwtSvc, logger: logger}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

// respondWithTokens кладёт refresh-токен ещё и в httpOnly-куку, как раньше делал фронт.
func (ctrl *AuthController) respondWithTokens(c echo.Context, res *dto.AuthResponseDTO, message string, code int) error {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    res.RefreshToken,
		Path:     "/",
		Expires:  time.Now().Add(ctrl.jwtSvc.GetRefreshTokenTTL()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	return utils.SuccessResponse(c, res, message, code)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := bindAndValidate(c, &payload); err != nil {
		ctrl.logger.Warn("Login: неверные данные", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	res, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("Login: ошибка авторизации", zap.String("login", payload.Login), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}
	return ctrl.respondWithTokens(c, res, "Авторизация прошла успешно", http.StatusOK)
}

func (ctrl *AuthController) Register(c echo.Context) error {
	var payload dto.RegisterCustomerDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, err := ctrl.authService.RegisterCustomer(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return ctrl.respondWithTokens(c, res, "Регистрация прошла успешно", http.StatusCreated)
}

// RefreshToken принимает токен из тела или из куки.
func (ctrl *AuthController) RefreshToken(c echo.Context) error {
	var payload dto.RefreshTokenDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных", err, nil))
	}
	if payload.RefreshToken == "" {
		cookie, err := c.Cookie(refreshCookieName)
		if err != nil {
			return ctrl.errorResponse(c, apperrors.ErrUnauthorized)
		}
		payload.RefreshToken = cookie.Value
	}

	res, err := ctrl.authService.RefreshTokens(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return ctrl.respondWithTokens(c, res, "Токены успешно обновлены", http.StatusOK)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	return utils.SuccessResponse(c, nil, "Вы успешно вышли из системы.", http.StatusOK)
}

func (ctrl *AuthController) Me(c echo.Context) error {
	user, err := ctrl.authService.Me(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, user, "Профиль пользователя получен", http.StatusOK)
}
