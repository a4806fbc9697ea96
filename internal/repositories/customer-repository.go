package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"autoshop-system/internal/entities"
	"autoshop-system/internal/infrastructure/bd"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/types"
)

const customerReturning = "id, first_name, last_name, phone, address, email, telegram_chat_id, registered_at"

var customerColumns = []string{
	"c.id", "c.first_name", "c.last_name", "c.phone", "c.address", "c.email", "c.telegram_chat_id", "c.registered_at",
}

var customerMap = map[string]string{
	"id":            "c.id",
	"first_name":    "c.first_name",
	"last_name":     "c.last_name",
	"phone":         "c.phone",
	"email":         "c.email",
	"registered_at": "c.registered_at",
}

type CustomerRepositoryInterface interface {
	GetCustomers(ctx context.Context, filter types.Filter) ([]entities.Customer, uint64, error)
	FindCustomer(ctx context.Context, id uint64) (*entities.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*entities.Customer, error)
	CreateCustomer(ctx context.Context, tx pgx.Tx, customer *entities.Customer) error
	UpdateCustomer(ctx context.Context, customer *entities.Customer) error
	DeleteCustomer(ctx context.Context, id uint64) error
	// UpsertByPhone находит клиента по телефону и обновляет имя, либо создаёт нового.
	UpsertByPhone(ctx context.Context, tx pgx.Tx, customer *entities.Customer) error
}

type CustomerRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCustomerRepository(storage *pgxpool.Pool, logger *zap.Logger) CustomerRepositoryInterface {
	return &CustomerRepository{storage: storage, logger: logger}
}

func scanCustomer(row pgx.Row) (*entities.Customer, error) {
	var c entities.Customer
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Address, &c.Email, &c.TelegramChatID, &c.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования клиента: %w", err)
	}
	return &c, nil
}

func customerWriteError(err error) error {
	if constraint, ok := uniqueViolation(err); ok {
		return fmt.Errorf("клиент с таким email или телефоном уже существует (%s): %w", constraint, apperrors.ErrConflict)
	}
	return err
}

func (r *CustomerRepository) GetCustomers(ctx context.Context, filter types.Filter) ([]entities.Customer, uint64, error) {
	searchCols := []string{"c.first_name", "c.last_name", "c.phone", "c.email"}

	countBuilder := bd.Psql.Select("COUNT(c.id)").From("customers AS c")
	countBuilder = bd.ApplySearch(countBuilder, filter.Search, searchCols...)
	countBuilder = bd.ApplyListParams(countBuilder, bd.CountFilter(filter), customerMap)

	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта клиентов: %w", err)
	}
	if total == 0 {
		return []entities.Customer{}, 0, nil
	}

	baseBuilder := bd.Psql.Select(customerColumns...).From("customers AS c")
	baseBuilder = bd.ApplySearch(baseBuilder, filter.Search, searchCols...)
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("c.last_name ASC", "c.first_name ASC")
	}
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, customerMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	customers := make([]entities.Customer, 0, filter.Limit)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, *customer)
	}
	return customers, total, rows.Err()
}

func (r *CustomerRepository) findOne(ctx context.Context, where sq.Eq) (*entities.Customer, error) {
	query, args, err := bd.Psql.Select(customerColumns...).From("customers AS c").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	return scanCustomer(r.storage.QueryRow(ctx, query, args...))
}

func (r *CustomerRepository) FindCustomer(ctx context.Context, id uint64) (*entities.Customer, error) {
	return r.findOne(ctx, sq.Eq{"c.id": id})
}

func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*entities.Customer, error) {
	return r.findOne(ctx, sq.Eq{"c.phone": phone})
}

func (r *CustomerRepository) CreateCustomer(ctx context.Context, tx pgx.Tx, customer *entities.Customer) error {
	query := `
		INSERT INTO customers (first_name, last_name, phone, address, email, telegram_chat_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + customerReturning
	created, err := scanCustomer(pick(r.storage, tx).QueryRow(ctx, query,
		customer.FirstName, customer.LastName, customer.Phone, customer.Address, customer.Email, customer.TelegramChatID,
	))
	if err != nil {
		return customerWriteError(err)
	}
	*customer = *created
	return nil
}

func (r *CustomerRepository) UpdateCustomer(ctx context.Context, customer *entities.Customer) error {
	query := `
		UPDATE customers
		SET first_name = $1, last_name = $2, phone = $3, address = $4, email = $5, telegram_chat_id = $6
		WHERE id = $7
		RETURNING ` + customerReturning
	updated, err := scanCustomer(r.storage.QueryRow(ctx, query,
		customer.FirstName, customer.LastName, customer.Phone, customer.Address, customer.Email, customer.TelegramChatID, customer.ID,
	))
	if err != nil {
		return customerWriteError(err)
	}
	*customer = *updated
	return nil
}

func (r *CustomerRepository) DeleteCustomer(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) UpsertByPhone(ctx context.Context, tx pgx.Tx, customer *entities.Customer) error {
	query := `
		INSERT INTO customers (first_name, last_name, phone, address, email, telegram_chat_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (phone) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    telegram_chat_id = COALESCE(EXCLUDED.telegram_chat_id, customers.telegram_chat_id)
		RETURNING ` + customerReturning
	saved, err := scanCustomer(pick(r.storage, tx).QueryRow(ctx, query,
		customer.FirstName, customer.LastName, customer.Phone, customer.Address, customer.Email, customer.TelegramChatID,
	))
	if err != nil {
		return customerWriteError(err)
	}
	*customer = *saved
	return nil
}
