package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"autoshop-system/internal/infrastructure/bd"
	"autoshop-system/pkg/constants"
	"autoshop-system/pkg/types"
)

type DashboardRepositoryInterface interface {
	GetCounts(ctx context.Context) (*types.DashboardCounts, error)
	GetCountByStatus(ctx context.Context) ([]types.StatusCount, error)
	GetCompletedIncome(ctx context.Context) (decimal.Decimal, error)
	GetPopularServices(ctx context.Context, limit uint64) ([]types.ServiceUsage, error)
	GetFrequentVehicles(ctx context.Context, limit uint64) ([]types.VehicleUsage, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

func (r *DashboardRepository) GetCounts(ctx context.Context) (*types.DashboardCounts, error) {
	counts := &types.DashboardCounts{}
	err := r.storage.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM employees),
			(SELECT COUNT(*) FROM services),
			(SELECT COUNT(*) FROM vehicles),
			(SELECT COUNT(*) FROM repair_tickets)
	`).Scan(&counts.Customers, &counts.Employees, &counts.Services, &counts.Vehicles, &counts.Repairs)
	return counts, err
}

// GetCountByStatus возвращает все статусы, включая пустые, в порядке жизненного цикла.
func (r *DashboardRepository) GetCountByStatus(ctx context.Context) ([]types.StatusCount, error) {
	query, args, err := bd.Psql.Select("status", "COUNT(*)").
		From("repair_tickets").
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byStatus := make(map[constants.RepairStatus]int64)
	for rows.Next() {
		var status constants.RepairStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		byStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]types.StatusCount, 0, len(constants.RepairStatuses))
	for _, s := range constants.RepairStatuses {
		result = append(result, types.StatusCount{Status: string(s), Label: s.Label(), Count: byStatus[s]})
	}
	return result, nil
}

func (r *DashboardRepository) GetCompletedIncome(ctx context.Context) (decimal.Decimal, error) {
	query, args, err := bd.Psql.Select("COALESCE(SUM(s.price), 0)").
		From("repair_tickets r").
		Join("services s ON s.id = r.service_id").
		Where(sq.Eq{"r.status": constants.RepairCompleted}).
		ToSql()
	if err != nil {
		return decimal.Zero, err
	}
	var total decimal.Decimal
	err = r.storage.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}

func (r *DashboardRepository) GetPopularServices(ctx context.Context, limit uint64) ([]types.ServiceUsage, error) {
	query, args, err := bd.Psql.Select("s.id", "s.name", "COUNT(r.id) AS cnt").
		From("services s").
		Join("repair_tickets r ON r.service_id = s.id").
		GroupBy("s.id", "s.name").
		OrderBy("cnt DESC", "s.name ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]types.ServiceUsage, 0)
	for rows.Next() {
		var item types.ServiceUsage
		if err := rows.Scan(&item.ServiceID, &item.Name, &item.Count); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *DashboardRepository) GetFrequentVehicles(ctx context.Context, limit uint64) ([]types.VehicleUsage, error) {
	query, args, err := bd.Psql.Select("v.id", "v.plate", "v.brand", "v.model", "COUNT(r.id) AS cnt").
		From("vehicles v").
		Join("repair_tickets r ON r.vehicle_id = v.id").
		GroupBy("v.id", "v.plate", "v.brand", "v.model").
		OrderBy("cnt DESC", "v.plate ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]types.VehicleUsage, 0)
	for rows.Next() {
		var item types.VehicleUsage
		if err := rows.Scan(&item.VehicleID, &item.Plate, &item.Brand, &item.Model, &item.Count); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
