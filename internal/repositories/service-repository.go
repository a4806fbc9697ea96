package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"autoshop-system/internal/entities"
	"autoshop-system/internal/infrastructure/bd"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/types"
)

const (
	serviceFields         = "id, name, description, price, duration_minutes, created_at"
	pgForeignKeyViolation = "23503"
)

var serviceMap = map[string]string{
	"id":               "id",
	"name":             "name",
	"price":            "price",
	"duration_minutes": "duration_minutes",
	"created_at":       "created_at",
}

// ServiceCatalogRepositoryInterface: каталог услуг мастерской.
type ServiceCatalogRepositoryInterface interface {
	GetServices(ctx context.Context, filter types.Filter) ([]entities.Service, uint64, error)
	ListServices(ctx context.Context) ([]entities.Service, error)
	FindService(ctx context.Context, id uint64) (*entities.Service, error)
	CreateService(ctx context.Context, service *entities.Service) error
	UpdateService(ctx context.Context, service *entities.Service) error
	DeleteService(ctx context.Context, id uint64) error
}

type ServiceCatalogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewServiceCatalogRepository(storage *pgxpool.Pool, logger *zap.Logger) ServiceCatalogRepositoryInterface {
	return &ServiceCatalogRepository{storage: storage, logger: logger}
}

func scanService(row pgx.Row) (*entities.Service, error) {
	var s entities.Service
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.DurationMinutes, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования услуги: %w", err)
	}
	return &s, nil
}

func (r *ServiceCatalogRepository) GetServices(ctx context.Context, filter types.Filter) ([]entities.Service, uint64, error) {
	countBuilder := bd.Psql.Select("COUNT(id)").From("services")
	countBuilder = bd.ApplySearch(countBuilder, filter.Search, "name", "description")
	countBuilder = bd.ApplyListParams(countBuilder, bd.CountFilter(filter), serviceMap)

	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта услуг: %w", err)
	}
	if total == 0 {
		return []entities.Service{}, 0, nil
	}

	baseBuilder := bd.Psql.Select(serviceFields).From("services")
	baseBuilder = bd.ApplySearch(baseBuilder, filter.Search, "name", "description")
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("name ASC")
	}
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, serviceMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	services, err := r.query(ctx, query, args...)
	return services, total, err
}

func (r *ServiceCatalogRepository) ListServices(ctx context.Context) ([]entities.Service, error) {
	return r.query(ctx, "SELECT "+serviceFields+" FROM services ORDER BY name ASC")
}

func (r *ServiceCatalogRepository) query(ctx context.Context, query string, args ...interface{}) ([]entities.Service, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := make([]entities.Service, 0)
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, *service)
	}
	return services, rows.Err()
}

func (r *ServiceCatalogRepository) FindService(ctx context.Context, id uint64) (*entities.Service, error) {
	return scanService(r.storage.QueryRow(ctx, "SELECT "+serviceFields+" FROM services WHERE id = $1", id))
}

func (r *ServiceCatalogRepository) CreateService(ctx context.Context, service *entities.Service) error {
	query := `
		INSERT INTO services (name, description, price, duration_minutes)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + serviceFields
	created, err := scanService(r.storage.QueryRow(ctx, query,
		service.Name, service.Description, service.Price, service.DurationMinutes,
	))
	if err != nil {
		return err
	}
	*service = *created
	return nil
}

func (r *ServiceCatalogRepository) UpdateService(ctx context.Context, service *entities.Service) error {
	query := `
		UPDATE services SET name = $1, description = $2, price = $3, duration_minutes = $4
		WHERE id = $5
		RETURNING ` + serviceFields
	updated, err := scanService(r.storage.QueryRow(ctx, query,
		service.Name, service.Description, service.Price, service.DurationMinutes, service.ID,
	))
	if err != nil {
		return err
	}
	*service = *updated
	return nil
}

func (r *ServiceCatalogRepository) DeleteService(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM services WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("услуга используется в записях или ремонтах: %w", apperrors.ErrConflict)
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
