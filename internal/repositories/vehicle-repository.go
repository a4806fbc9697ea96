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

const vehicleReturning = "id, customer_id, brand, model, year, plate, created_at"

var vehicleColumns = []string{
	"v.id", "v.customer_id", "v.brand", "v.model", "v.year", "v.plate", "v.created_at",
	"TRIM(c.first_name || ' ' || c.last_name)",
}

var vehicleMap = map[string]string{
	"id":          "v.id",
	"customer_id": "v.customer_id",
	"brand":       "v.brand",
	"model":       "v.model",
	"year":        "v.year",
	"plate":       "v.plate",
	"created_at":  "v.created_at",
}

type VehicleRepositoryInterface interface {
	GetVehicles(ctx context.Context, filter types.Filter) ([]entities.Vehicle, uint64, error)
	FindVehicle(ctx context.Context, id uint64) (*entities.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*entities.Vehicle, error)
	CreateVehicle(ctx context.Context, vehicle *entities.Vehicle) error
	UpdateVehicle(ctx context.Context, vehicle *entities.Vehicle) error
	DeleteVehicle(ctx context.Context, id uint64) error
	// UpsertByPlate обновляет данные автомобиля клиента или создаёт новый.
	// Номер, закреплённый за другим клиентом, даёт ошибку валидации.
	UpsertByPlate(ctx context.Context, tx pgx.Tx, vehicle *entities.Vehicle) error
}

type VehicleRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewVehicleRepository(storage *pgxpool.Pool, logger *zap.Logger) VehicleRepositoryInterface {
	return &VehicleRepository{storage: storage, logger: logger}
}

func scanVehicle(row pgx.Row, withOwner bool) (*entities.Vehicle, error) {
	var v entities.Vehicle
	dest := []interface{}{&v.ID, &v.CustomerID, &v.Brand, &v.Model, &v.Year, &v.Plate, &v.CreatedAt}
	if withOwner {
		dest = append(dest, &v.CustomerName)
	}
	err := row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования автомобиля: %w", err)
	}
	return &v, nil
}

func vehicleWriteError(err error) error {
	if _, ok := uniqueViolation(err); ok {
		return fmt.Errorf("автомобиль с таким номером уже зарегистрирован: %w", apperrors.ErrConflict)
	}
	return err
}

func (r *VehicleRepository) GetVehicles(ctx context.Context, filter types.Filter) ([]entities.Vehicle, uint64, error) {
	searchCols := []string{"v.plate", "v.brand", "v.model"}

	countBuilder := bd.Psql.Select("COUNT(v.id)").From("vehicles AS v")
	countBuilder = bd.ApplySearch(countBuilder, filter.Search, searchCols...)
	countBuilder = bd.ApplyListParams(countBuilder, bd.CountFilter(filter), vehicleMap)

	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта автомобилей: %w", err)
	}
	if total == 0 {
		return []entities.Vehicle{}, 0, nil
	}

	baseBuilder := bd.Psql.Select(vehicleColumns...).
		From("vehicles AS v").
		Join("customers c ON c.id = v.customer_id")
	baseBuilder = bd.ApplySearch(baseBuilder, filter.Search, searchCols...)
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("v.id DESC")
	}
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, vehicleMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	vehicles := make([]entities.Vehicle, 0, filter.Limit)
	for rows.Next() {
		vehicle, err := scanVehicle(rows, true)
		if err != nil {
			return nil, 0, err
		}
		vehicles = append(vehicles, *vehicle)
	}
	return vehicles, total, rows.Err()
}

func (r *VehicleRepository) findOne(ctx context.Context, where sq.Eq) (*entities.Vehicle, error) {
	query, args, err := bd.Psql.Select(vehicleColumns...).
		From("vehicles AS v").
		Join("customers c ON c.id = v.customer_id").
		Where(where).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanVehicle(r.storage.QueryRow(ctx, query, args...), true)
}

func (r *VehicleRepository) FindVehicle(ctx context.Context, id uint64) (*entities.Vehicle, error) {
	return r.findOne(ctx, sq.Eq{"v.id": id})
}

func (r *VehicleRepository) FindByPlate(ctx context.Context, plate string) (*entities.Vehicle, error) {
	return r.findOne(ctx, sq.Eq{"v.plate": plate})
}

func (r *VehicleRepository) CreateVehicle(ctx context.Context, vehicle *entities.Vehicle) error {
	query := `
		INSERT INTO vehicles (customer_id, brand, model, year, plate)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + vehicleReturning
	created, err := scanVehicle(r.storage.QueryRow(ctx, query,
		vehicle.CustomerID, vehicle.Brand, vehicle.Model, vehicle.Year, vehicle.Plate,
	), false)
	if err != nil {
		return vehicleWriteError(err)
	}
	*vehicle = *created
	return nil
}

func (r *VehicleRepository) UpdateVehicle(ctx context.Context, vehicle *entities.Vehicle) error {
	query := `
		UPDATE vehicles SET brand = $1, model = $2, year = $3, plate = $4
		WHERE id = $5
		RETURNING ` + vehicleReturning
	updated, err := scanVehicle(r.storage.QueryRow(ctx, query,
		vehicle.Brand, vehicle.Model, vehicle.Year, vehicle.Plate, vehicle.ID,
	), false)
	if err != nil {
		return vehicleWriteError(err)
	}
	*vehicle = *updated
	return nil
}

func (r *VehicleRepository) DeleteVehicle(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM vehicles WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *VehicleRepository) UpsertByPlate(ctx context.Context, tx pgx.Tx, vehicle *entities.Vehicle) error {
	query := `
		INSERT INTO vehicles (customer_id, brand, model, year, plate)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (plate) DO UPDATE
		SET brand = EXCLUDED.brand, model = EXCLUDED.model, year = EXCLUDED.year
		WHERE vehicles.customer_id = EXCLUDED.customer_id
		RETURNING ` + vehicleReturning
	saved, err := scanVehicle(pick(r.storage, tx).QueryRow(ctx, query,
		vehicle.CustomerID, vehicle.Brand, vehicle.Model, vehicle.Year, vehicle.Plate,
	), false)
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewValidationError(apperrors.KindInvalidInput, "plate",
			"номер %s уже закреплён за другим клиентом", vehicle.Plate)
	}
	if err != nil {
		return vehicleWriteError(err)
	}
	*vehicle = *saved
	return nil
}
