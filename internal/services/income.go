package services

import (
	"context"
	"sort"
	"time"

	"autoshop-system/internal/authz"
	"autoshop-system/internal/entities"
	"autoshop-system/internal/repositories"
	"autoshop-system/pkg/constants"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AggregateIncome группирует заявки по месяцу приёмки (в часовом поясе loc)
// и суммирует цены услуг. Корзины идут по возрастанию месяца.
func AggregateIncome(tickets []entities.RepairTicket, loc *time.Location) []entities.IncomeBucket {
	byPeriod := make(map[string]*entities.IncomeBucket)
	for _, t := range tickets {
		month := t.IntakeAt.In(loc)
		period := month.Format(constants.MonthLayout)
		bucket, ok := byPeriod[period]
		if !ok {
			bucket = &entities.IncomeBucket{
				Period: period,
				Label:  month.Format(constants.MonthLabel),
				Total:  decimal.Zero,
			}
			byPeriod[period] = bucket
		}
		bucket.TicketCount++
		bucket.Total = bucket.Total.Add(t.ServicePrice)
	}

	buckets := make([]entities.IncomeBucket, 0, len(byPeriod))
	for _, b := range byPeriod {
		buckets = append(buckets, *b)
	}
	// "YYYY-MM" сортируется лексикографически в хронологическом порядке.
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Period < buckets[j].Period })
	return buckets
}

// LastBuckets отрезает последние n корзин. При n <= 0 отдаёт все.
func LastBuckets(buckets []entities.IncomeBucket, n int) []entities.IncomeBucket {
	if n <= 0 || len(buckets) <= n {
		return buckets
	}
	return buckets[len(buckets)-n:]
}

type IncomeServiceInterface interface {
	IncomeReport(ctx context.Context, filter entities.IncomeFilter) ([]entities.IncomeBucket, error)
	// MonthlyIncome: тот же отчёт, посчитанный в БД; для панели руководителя.
	MonthlyIncome(ctx context.Context, filter entities.IncomeFilter) ([]entities.IncomeBucket, error)
}

type IncomeService struct {
	repairRepo repositories.RepairRepositoryInterface
	reportRepo repositories.ReportRepositoryInterface
	location   *time.Location
	logger     *zap.Logger
}

func NewIncomeService(
	repairRepo repositories.RepairRepositoryInterface,
	reportRepo repositories.ReportRepositoryInterface,
	location *time.Location,
	logger *zap.Logger,
) IncomeServiceInterface {
	return &IncomeService{repairRepo: repairRepo, reportRepo: reportRepo, location: location, logger: logger}
}

func (s *IncomeService) IncomeReport(ctx context.Context, filter entities.IncomeFilter) ([]entities.IncomeBucket, error) {
	if err := authorize(ctx, authz.ReportsView, nil); err != nil {
		return nil, err
	}
	tickets, err := s.repairRepo.GetRepairsForIncome(ctx, filter)
	if err != nil {
		return nil, err
	}
	buckets := AggregateIncome(tickets, s.location)
	s.logger.Debug("Отчёт о доходах построен", zap.Int("tickets", len(tickets)), zap.Int("buckets", len(buckets)))
	return LastBuckets(buckets, filter.Last), nil
}

func (s *IncomeService) MonthlyIncome(ctx context.Context, filter entities.IncomeFilter) ([]entities.IncomeBucket, error) {
	if err := authorize(ctx, authz.ReportsView, nil); err != nil {
		return nil, err
	}
	buckets, err := s.reportRepo.MonthlyIncome(ctx, filter)
	if err != nil {
		return nil, err
	}
	return LastBuckets(buckets, filter.Last), nil
}
