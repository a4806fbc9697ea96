package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"autoshop-system/internal/entities"
	"autoshop-system/internal/infrastructure/bd"
	"autoshop-system/pkg/constants"
)

type ReportRepositoryInterface interface {
	// MonthlyIncome считает доход по месяцам приёмки на стороне БД.
	// Результат совпадает с services.AggregateIncome на тех же заявках.
	MonthlyIncome(ctx context.Context, filter entities.IncomeFilter) ([]entities.IncomeBucket, error)
}

type reportRepository struct {
	db       *pgxpool.Pool
	location *time.Location
	logger   *zap.Logger
}

func NewReportRepository(db *pgxpool.Pool, location *time.Location, logger *zap.Logger) ReportRepositoryInterface {
	return &reportRepository{db: db, location: location, logger: logger}
}

func (r *reportRepository) MonthlyIncome(ctx context.Context, filter entities.IncomeFilter) ([]entities.IncomeBucket, error) {
	localIntake := fmt.Sprintf("(r.intake_at AT TIME ZONE '%s')", r.location.String())
	period := "to_char(date_trunc('month', " + localIntake + "), 'YYYY-MM')"

	b := bd.Psql.Select(period+" AS period", "COUNT(r.id)", "COALESCE(SUM(s.price), 0)").
		From("repair_tickets r").
		Join("services s ON s.id = r.service_id")
	if filter.DateFrom != nil {
		b = b.Where(sq.Expr(localIntake+"::date >= ?::date", filter.DateFrom.Format(constants.DateLayout)))
	}
	if filter.DateTo != nil {
		b = b.Where(sq.Expr(localIntake+"::date <= ?::date", filter.DateTo.Format(constants.DateLayout)))
	}
	if filter.OnlyCompleted {
		b = b.Where(sq.Eq{"r.status": constants.RepairCompleted})
	}

	query, args, err := b.GroupBy("period").OrderBy("period ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса дохода: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса дохода: %w", err)
	}
	defer rows.Close()

	buckets := make([]entities.IncomeBucket, 0)
	for rows.Next() {
		var bucket entities.IncomeBucket
		if err := rows.Scan(&bucket.Period, &bucket.TicketCount, &bucket.Total); err != nil {
			return nil, err
		}
		if month, err := time.Parse(constants.MonthLayout, bucket.Period); err == nil {
			bucket.Label = month.Format(constants.MonthLabel)
		}
		buckets = append(buckets, bucket)
	}
	return buckets, rows.Err()
}
