package middleware

import (
	"strings"

	"autoshop-system/internal/authz"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/service"
	"autoshop-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth проверяет access-токен и кладёт актора в контекст запроса.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			m.logger.Debug("AuthMiddleware: пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}
		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: попытка доступа с refresh токеном")
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		actor := utils.Actor{
			UserID:     claims.UserID,
			Role:       claims.Role,
			EmployeeID: claims.EmployeeID,
			CustomerID: claims.CustomerID,
		}
		c.SetRequest(c.Request().WithContext(utils.WithActor(c.Request().Context(), actor)))
		return next(c)
	}
}

// RequirePermission пропускает запрос, только если у роли актора есть право.
// Проверки по конкретному объекту делают сервисы.
func (m *AuthMiddleware) RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := utils.GetActorFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
			}
			if !authz.CanDo(permission, authz.NewContext(actor, nil)) {
				m.logger.Info("Доступ запрещён",
					zap.Uint64("userID", actor.UserID),
					zap.String("role", string(actor.Role)),
					zap.String("permission", permission),
				)
				return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
			}
			return next(c)
		}
	}
}
