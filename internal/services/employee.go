package services

import (
	"context"
	"fmt"

	"autoshop-system/internal/authz"
	"autoshop-system/internal/dto"
	"autoshop-system/internal/entities"
	"autoshop-system/internal/repositories"
	"autoshop-system/pkg/constants"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/types"
	"autoshop-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EmployeeServiceInterface interface {
	GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error)
	FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error)
	CreateEmployee(ctx context.Context, createDTO dto.CreateEmployeeDTO) (*entities.Employee, error)
	UpdateEmployee(ctx context.Context, id uint64, updateDTO dto.UpdateEmployeeDTO) (*entities.Employee, error)
	DeleteEmployee(ctx context.Context, id uint64) error
}

type EmployeeService struct {
	repo      repositories.EmployeeRepositoryInterface
	userRepo  repositories.UserRepositoryInterface
	txManager repositories.TxManagerInterface
	logger    *zap.Logger
}

func NewEmployeeService(
	repo repositories.EmployeeRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) EmployeeServiceInterface {
	return &EmployeeService{repo: repo, userRepo: userRepo, txManager: txManager, logger: logger}
}

func (s *EmployeeService) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	if err := authorize(ctx, authz.EmployeesView, nil); err != nil {
		return nil, 0, err
	}
	return s.repo.GetEmployees(ctx, filter)
}

func (s *EmployeeService) FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error) {
	if err := authorize(ctx, authz.EmployeesView, nil); err != nil {
		return nil, err
	}
	employee, err := s.repo.FindEmployee(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("сотрудник %d: %w", id, err)
	}
	return employee, nil
}

// CreateEmployee создаёт сотрудника и, если передан логин, его учётную запись.
func (s *EmployeeService) CreateEmployee(ctx context.Context, createDTO dto.CreateEmployeeDTO) (*entities.Employee, error) {
	if err := authorize(ctx, authz.EmployeesManage, nil); err != nil {
		return nil, err
	}
	if createDTO.Login != "" && createDTO.Password == "" {
		return nil, apperrors.NewValidationError(apperrors.KindInvalidInput, "password", "для учётной записи нужен пароль")
	}

	employee := &entities.Employee{
		Name:     createDTO.Name,
		Position: createDTO.Position,
		Role:     constants.Role(createDTO.Role),
		Phone:    utils.NormalizePhone(createDTO.Phone),
		Email:    createDTO.Email,
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.repo.CreateEmployee(ctx, tx, employee); err != nil {
			return err
		}
		if createDTO.Login == "" {
			return nil
		}
		hash, err := utils.HashPassword(createDTO.Password)
		if err != nil {
			return err
		}
		return s.userRepo.CreateUser(ctx, tx, &entities.User{
			Login:        createDTO.Login,
			PasswordHash: hash,
			Role:         employee.Role,
			EmployeeID:   &employee.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Создан сотрудник", zap.Uint64("employeeID", employee.ID), zap.String("role", string(employee.Role)))
	return employee, nil
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uint64, updateDTO dto.UpdateEmployeeDTO) (*entities.Employee, error) {
	if err := authorize(ctx, authz.EmployeesManage, nil); err != nil {
		return nil, err
	}
	employee, err := s.repo.FindEmployee(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("сотрудник %d: %w", id, err)
	}

	if updateDTO.Name.Valid {
		employee.Name = updateDTO.Name.String
	}
	if updateDTO.Position.Valid {
		employee.Position = updateDTO.Position.String
	}
	roleChanged := false
	if updateDTO.Role.Valid {
		role := constants.Role(updateDTO.Role.String)
		if !role.IsStaff() {
			return nil, apperrors.NewValidationError(apperrors.KindInvalidInput, "role", "роль %q недоступна сотруднику", role)
		}
		roleChanged = role != employee.Role
		employee.Role = role
	}
	if updateDTO.Phone.Valid {
		employee.Phone = utils.NormalizePhone(updateDTO.Phone.String)
	}
	if updateDTO.Email.Valid {
		employee.Email = updateDTO.Email.String
	}
	if updateDTO.TelegramChatID.Valid {
		employee.TelegramChatID = &updateDTO.TelegramChatID.Int64
	}

	if err := s.repo.UpdateEmployee(ctx, employee); err != nil {
		return nil, err
	}
	if roleChanged {
		if err := s.userRepo.UpdateEmployeeRole(ctx, employee.ID, employee.Role); err != nil {
			return nil, err
		}
	}
	return employee, nil
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uint64) error {
	if err := authorize(ctx, authz.EmployeesManage, nil); err != nil {
		return err
	}
	return s.repo.DeleteEmployee(ctx, id)
}
