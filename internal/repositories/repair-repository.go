package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"autoshop-system/internal/entities"
	"autoshop-system/internal/infrastructure/bd"
	"autoshop-system/pkg/constants"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/types"
)

var repairColumns = []string{
	"r.id", "r.vehicle_id", "r.service_id", "r.intake_at", "r.completed_at", "r.condition", "r.status",
	"r.mechanic_id", "r.scheduled_date", "r.scheduled_slot", "r.notes", "r.updated_at",
	"v.plate", "v.customer_id", "TRIM(c.first_name || ' ' || c.last_name)", "s.name", "s.price", "e.name",
}

var repairMap = map[string]string{
	"id":             "r.id",
	"vehicle_id":     "r.vehicle_id",
	"service_id":     "r.service_id",
	"customer_id":    "v.customer_id",
	"mechanic_id":    "r.mechanic_id",
	"status":         "r.status",
	"condition":      "r.condition",
	"intake_at":      "r.intake_at",
	"completed_at":   "r.completed_at",
	"scheduled_date": "r.scheduled_date",
	"updated_at":     "r.updated_at",
}

type RepairRepositoryInterface interface {
	// GetRepairs понимает, кроме колонок из repairMap, filter[unassigned]=true,
	// filter[intake_from] и filter[intake_to] (YYYY-MM-DD, включительно).
	GetRepairs(ctx context.Context, filter types.Filter) ([]entities.RepairTicket, uint64, error)
	FindRepair(ctx context.Context, id uint64) (*entities.RepairTicket, error)
	CreateRepair(ctx context.Context, tx pgx.Tx, ticket *entities.RepairTicket) error
	UpdateStatus(ctx context.Context, id uint64, status constants.RepairStatus) error
	UpdateMechanic(ctx context.Context, id uint64, mechanicID *uint64) error
	// ClaimRepair назначает механика, только если заявка свободна. false значит, что заявку уже взяли.
	ClaimRepair(ctx context.Context, id uint64, mechanicID uint64) (bool, error)
	UpdateCompletion(ctx context.Context, id uint64, completedAt *time.Time) error
	UpdateNotes(ctx context.Context, id uint64, notes string) error
	GetRepairsForIncome(ctx context.Context, filter entities.IncomeFilter) ([]entities.RepairTicket, error)
	// ScheduledSlotsTaken: слоты на дату, занятые активными заявками.
	ScheduledSlotsTaken(ctx context.Context, date time.Time) ([]string, error)
}

type RepairRepository struct {
	storage  *pgxpool.Pool
	location *time.Location
	logger   *zap.Logger
}

func NewRepairRepository(storage *pgxpool.Pool, location *time.Location, logger *zap.Logger) RepairRepositoryInterface {
	return &RepairRepository{storage: storage, location: location, logger: logger}
}

func scanRepair(row pgx.Row) (*entities.RepairTicket, error) {
	var r entities.RepairTicket
	err := row.Scan(
		&r.ID, &r.VehicleID, &r.ServiceID, &r.IntakeAt, &r.CompletedAt, &r.Condition, &r.Status,
		&r.MechanicID, &r.ScheduledDate, &r.ScheduledSlot, &r.Notes, &r.UpdatedAt,
		&r.Plate, &r.CustomerID, &r.CustomerName, &r.ServiceName, &r.ServicePrice, &r.MechanicName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
	}
	return &r, nil
}

func (r *RepairRepository) fromClause(b sq.SelectBuilder) sq.SelectBuilder {
	return b.From("repair_tickets AS r").
		Join("vehicles v ON v.id = r.vehicle_id").
		Join("customers c ON c.id = v.customer_id").
		Join("services s ON s.id = r.service_id").
		LeftJoin("employees e ON e.id = r.mechanic_id")
}

// intakeDay: дата приёмки в часовом поясе мастерской.
func (r *RepairRepository) intakeDay() string {
	return fmt.Sprintf("(r.intake_at AT TIME ZONE '%s')::date", r.location.String())
}

func (r *RepairRepository) applySpecialFilters(b sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	if v, ok := filter.String("unassigned"); ok && v == "true" {
		b = b.Where(sq.Eq{"r.mechanic_id": nil})
	}
	if from, ok := filter.String("intake_from"); ok {
		b = b.Where(sq.Expr(r.intakeDay()+" >= ?::date", from))
	}
	if to, ok := filter.String("intake_to"); ok {
		b = b.Where(sq.Expr(r.intakeDay()+" <= ?::date", to))
	}
	return bd.ApplySearch(b, filter.Search, "v.plate", "c.first_name", "c.last_name", "s.name")
}

func (r *RepairRepository) GetRepairs(ctx context.Context, filter types.Filter) ([]entities.RepairTicket, uint64, error) {
	countBuilder := r.fromClause(bd.Psql.Select("COUNT(r.id)"))
	countBuilder = r.applySpecialFilters(countBuilder, filter)
	countBuilder = bd.ApplyListParams(countBuilder, bd.CountFilter(filter), repairMap)

	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта заявок: %w", err)
	}
	if total == 0 {
		return []entities.RepairTicket{}, 0, nil
	}

	baseBuilder := r.fromClause(bd.Psql.Select(repairColumns...))
	baseBuilder = r.applySpecialFilters(baseBuilder, filter)
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("r.intake_at DESC")
	}
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, repairMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	list, err := r.query(ctx, query, args...)
	return list, total, err
}

func (r *RepairRepository) query(ctx context.Context, query string, args ...interface{}) ([]entities.RepairTicket, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.RepairTicket, 0)
	for rows.Next() {
		ticket, err := scanRepair(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *ticket)
	}
	return list, rows.Err()
}

func (r *RepairRepository) FindRepair(ctx context.Context, id uint64) (*entities.RepairTicket, error) {
	query, args, err := r.fromClause(bd.Psql.Select(repairColumns...)).Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanRepair(r.storage.QueryRow(ctx, query, args...))
}

func (r *RepairRepository) CreateRepair(ctx context.Context, tx pgx.Tx, ticket *entities.RepairTicket) error {
	var scheduledDate *string
	if ticket.ScheduledDate != nil {
		formatted := ticket.ScheduledDate.Format(constants.DateLayout)
		scheduledDate = &formatted
	}
	query := `
		INSERT INTO repair_tickets (vehicle_id, service_id, condition, status, mechanic_id, scheduled_date, scheduled_slot, notes)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8)
		RETURNING id, intake_at, updated_at`
	err := pick(r.storage, tx).QueryRow(ctx, query,
		ticket.VehicleID, ticket.ServiceID, ticket.Condition, ticket.Status,
		ticket.MechanicID, scheduledDate, ticket.ScheduledSlot, ticket.Notes,
	).Scan(&ticket.ID, &ticket.IntakeAt, &ticket.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания заявки: %w", err)
	}
	return nil
}

func (r *RepairRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RepairRepository) UpdateStatus(ctx context.Context, id uint64, status constants.RepairStatus) error {
	return r.exec(ctx, "UPDATE repair_tickets SET status = $1, updated_at = NOW() WHERE id = $2", status, id)
}

func (r *RepairRepository) UpdateMechanic(ctx context.Context, id uint64, mechanicID *uint64) error {
	return r.exec(ctx, "UPDATE repair_tickets SET mechanic_id = $1, updated_at = NOW() WHERE id = $2", mechanicID, id)
}

func (r *RepairRepository) ClaimRepair(ctx context.Context, id uint64, mechanicID uint64) (bool, error) {
	result, err := r.storage.Exec(ctx,
		"UPDATE repair_tickets SET mechanic_id = $1, updated_at = NOW() WHERE id = $2 AND mechanic_id IS NULL",
		mechanicID, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepairRepository) UpdateCompletion(ctx context.Context, id uint64, completedAt *time.Time) error {
	return r.exec(ctx, "UPDATE repair_tickets SET completed_at = $1, updated_at = NOW() WHERE id = $2", completedAt, id)
}

func (r *RepairRepository) UpdateNotes(ctx context.Context, id uint64, notes string) error {
	return r.exec(ctx, "UPDATE repair_tickets SET notes = $1, updated_at = NOW() WHERE id = $2", notes, id)
}

func (r *RepairRepository) GetRepairsForIncome(ctx context.Context, filter entities.IncomeFilter) ([]entities.RepairTicket, error) {
	b := r.fromClause(bd.Psql.Select(repairColumns...))
	if filter.DateFrom != nil {
		b = b.Where(sq.Expr(r.intakeDay()+" >= ?::date", filter.DateFrom.Format(constants.DateLayout)))
	}
	if filter.DateTo != nil {
		b = b.Where(sq.Expr(r.intakeDay()+" <= ?::date", filter.DateTo.Format(constants.DateLayout)))
	}
	if filter.OnlyCompleted {
		b = b.Where(sq.Eq{"r.status": constants.RepairCompleted})
	}
	query, args, err := b.OrderBy("r.intake_at ASC").ToSql()
	if err != nil {
		return nil, err
	}
	return r.query(ctx, query, args...)
}

func (r *RepairRepository) ScheduledSlotsTaken(ctx context.Context, date time.Time) ([]string, error) {
	query, args, err := bd.Psql.Select("DISTINCT scheduled_slot").
		From("repair_tickets").
		Where(sq.Expr("scheduled_date = ?::date", date.Format(constants.DateLayout))).
		Where(sq.Eq{"status": constants.ActiveRepairStatuses}).
		Where(sq.NotEq{"scheduled_slot": nil}).
		OrderBy("scheduled_slot").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
