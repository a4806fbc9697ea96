package seeders

import (
	"context"
	"errors"
	"fmt"

	"autoshop-system/internal/dto"
	"autoshop-system/internal/repositories"
	"autoshop-system/internal/services"
	"autoshop-system/pkg/constants"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// BossAccount: учётная запись руководителя, которую создаёт `seed boss`.
type BossAccount struct {
	Login    string
	Password string
	Name     string
	Email    string
}

// seedBoss создаёт сотрудника с ролью boss и его логин через обычный сервис сотрудников.
// Повторный запуск с тем же логином ничего не меняет.
func seedBoss(ctx context.Context, db *pgxpool.Pool, account BossAccount, logger *zap.Logger) error {
	logger.Info("  - Создание руководителя...", zap.String("login", account.Login))

	userRepo := repositories.NewUserRepository(db, logger)
	if _, err := userRepo.FindByLogin(ctx, account.Login); err == nil {
		logger.Info("    - Пользователь уже существует. Пропускаем.", zap.String("login", account.Login))
		return nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("ошибка при проверке пользователя: %w", err)
	}

	employeeService := services.NewEmployeeService(
		repositories.NewEmployeeRepository(db, logger),
		userRepo,
		repositories.NewTxManager(db),
		logger,
	)
	employee, err := employeeService.CreateEmployee(utils.WithSystemActor(ctx), dto.CreateEmployeeDTO{
		Name:     account.Name,
		Position: "Jefe de taller",
		Role:     string(constants.RoleBoss),
		Email:    account.Email,
		Login:    account.Login,
		Password: account.Password,
	})
	if err != nil {
		return err
	}

	logger.Info("    - Руководитель создан", zap.Uint64("employeeID", employee.ID))
	return nil
}
