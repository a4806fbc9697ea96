package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"autoshop-system/internal/entities"
	"autoshop-system/internal/infrastructure/bd"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/types"
)

const employeeFields = "id, name, position, role, phone, email, telegram_chat_id, created_at"

var employeeMap = map[string]string{
	"id":         "id",
	"name":       "name",
	"position":   "position",
	"role":       "role",
	"email":      "email",
	"created_at": "created_at",
}

type EmployeeRepositoryInterface interface {
	GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error)
	FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error)
	CreateEmployee(ctx context.Context, tx pgx.Tx, employee *entities.Employee) error
	UpdateEmployee(ctx context.Context, employee *entities.Employee) error
	DeleteEmployee(ctx context.Context, id uint64) error
}

type EmployeeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEmployeeRepository(storage *pgxpool.Pool, logger *zap.Logger) EmployeeRepositoryInterface {
	return &EmployeeRepository{storage: storage, logger: logger}
}

func scanEmployee(row pgx.Row) (*entities.Employee, error) {
	var e entities.Employee
	err := row.Scan(&e.ID, &e.Name, &e.Position, &e.Role, &e.Phone, &e.Email, &e.TelegramChatID, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования сотрудника: %w", err)
	}
	return &e, nil
}

func employeeWriteError(err error) error {
	if _, ok := uniqueViolation(err); ok {
		return fmt.Errorf("сотрудник с таким email уже существует: %w", apperrors.ErrConflict)
	}
	return err
}

func (r *EmployeeRepository) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	countBuilder := bd.Psql.Select("COUNT(id)").From("employees")
	countBuilder = bd.ApplySearch(countBuilder, filter.Search, "name", "position", "email")
	countBuilder = bd.ApplyListParams(countBuilder, bd.CountFilter(filter), employeeMap)

	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта сотрудников: %w", err)
	}
	if total == 0 {
		return []entities.Employee{}, 0, nil
	}

	baseBuilder := bd.Psql.Select(employeeFields).From("employees")
	baseBuilder = bd.ApplySearch(baseBuilder, filter.Search, "name", "position", "email")
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("name ASC")
	}
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, employeeMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	employees := make([]entities.Employee, 0, filter.Limit)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, *employee)
	}
	return employees, total, rows.Err()
}

func (r *EmployeeRepository) FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error) {
	return scanEmployee(r.storage.QueryRow(ctx, "SELECT "+employeeFields+" FROM employees WHERE id = $1", id))
}

func (r *EmployeeRepository) CreateEmployee(ctx context.Context, tx pgx.Tx, employee *entities.Employee) error {
	query := `
		INSERT INTO employees (name, position, role, phone, email, telegram_chat_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + employeeFields
	created, err := scanEmployee(pick(r.storage, tx).QueryRow(ctx, query,
		employee.Name, employee.Position, employee.Role, employee.Phone, employee.Email, employee.TelegramChatID,
	))
	if err != nil {
		return employeeWriteError(err)
	}
	*employee = *created
	return nil
}

func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, employee *entities.Employee) error {
	query := `
		UPDATE employees
		SET name = $1, position = $2, role = $3, phone = $4, email = $5, telegram_chat_id = $6
		WHERE id = $7
		RETURNING ` + employeeFields
	updated, err := scanEmployee(r.storage.QueryRow(ctx, query,
		employee.Name, employee.Position, employee.Role, employee.Phone, employee.Email, employee.TelegramChatID, employee.ID,
	))
	if err != nil {
		return employeeWriteError(err)
	}
	*employee = *updated
	return nil
}

func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
