package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"autoshop-system/internal/entities"
	"autoshop-system/pkg/constants"
	apperrors "autoshop-system/pkg/errors"
)

const userFields = "id, login, password_hash, role, employee_id, customer_id, created_at"

type UserRepositoryInterface interface {
	FindByLogin(ctx context.Context, login string) (*entities.User, error)
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	CreateUser(ctx context.Context, tx pgx.Tx, user *entities.User) error
	// UpdateEmployeeRole переносит новую роль сотрудника в его учётную запись.
	UpdateEmployeeRole(ctx context.Context, employeeID uint64, role constants.Role) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.EmployeeID, &u.CustomerID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*entities.User, error) {
	return scanUser(r.storage.QueryRow(ctx, "SELECT "+userFields+" FROM users WHERE LOWER(login) = LOWER($1)", login))
}

func (r *UserRepository) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	return scanUser(r.storage.QueryRow(ctx, "SELECT "+userFields+" FROM users WHERE id = $1", id))
}

func (r *UserRepository) CreateUser(ctx context.Context, tx pgx.Tx, user *entities.User) error {
	query := `
		INSERT INTO users (login, password_hash, role, employee_id, customer_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userFields
	created, err := scanUser(pick(r.storage, tx).QueryRow(ctx, query,
		user.Login, user.PasswordHash, user.Role, user.EmployeeID, user.CustomerID,
	))
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return fmt.Errorf("логин %q уже занят: %w", user.Login, apperrors.ErrConflict)
		}
		return err
	}
	*user = *created
	return nil
}

func (r *UserRepository) UpdateEmployeeRole(ctx context.Context, employeeID uint64, role constants.Role) error {
	_, err := r.storage.Exec(ctx, "UPDATE users SET role = $1 WHERE employee_id = $2", role, employeeID)
	return err
}
