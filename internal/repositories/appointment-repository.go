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

const appointmentReturning = "id, customer_id, service_id, date, slot, created_at"

var appointmentColumns = []string{
	"a.id", "a.customer_id", "a.service_id", "a.date", "a.slot", "a.created_at",
	"TRIM(c.first_name || ' ' || c.last_name)", "s.name",
}

var appointmentMap = map[string]string{
	"id":          "a.id",
	"customer_id": "a.customer_id",
	"service_id":  "a.service_id",
	"date":        "a.date",
	"slot":        "a.slot",
	"created_at":  "a.created_at",
}

type AppointmentRepositoryInterface interface {
	GetAppointments(ctx context.Context, filter types.Filter) ([]entities.Appointment, uint64, error)
	// GetAppointmentsBetween: записи с from по to включительно, по дате и слоту.
	GetAppointmentsBetween(ctx context.Context, from, to time.Time) ([]entities.Appointment, error)
	FindAppointment(ctx context.Context, id uint64) (*entities.Appointment, error)
	IsSlotTaken(ctx context.Context, date time.Time, slot string, excludeID uint64) (bool, error)
	BookedSlots(ctx context.Context, date time.Time) ([]string, error)
	CreateAppointment(ctx context.Context, appointment *entities.Appointment) error
	UpdateAppointment(ctx context.Context, appointment *entities.Appointment) error
	DeleteAppointment(ctx context.Context, id uint64) error
}

type AppointmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAppointmentRepository(storage *pgxpool.Pool, logger *zap.Logger) AppointmentRepositoryInterface {
	return &AppointmentRepository{storage: storage, logger: logger}
}

func scanAppointment(row pgx.Row, withNames bool) (*entities.Appointment, error) {
	var a entities.Appointment
	dest := []interface{}{&a.ID, &a.CustomerID, &a.ServiceID, &a.Date, &a.Slot, &a.CreatedAt}
	if withNames {
		dest = append(dest, &a.CustomerName, &a.ServiceName)
	}
	err := row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования записи: %w", err)
	}
	return &a, nil
}

// appointmentWriteError: гонка двух записей на один слот ловится ограничением UNIQUE(date, slot).
func appointmentWriteError(err error, a *entities.Appointment) error {
	if _, ok := uniqueViolation(err); ok {
		return apperrors.NewValidationError(apperrors.KindSlotConflict, "slot",
			"слот %s %s уже занят", a.Date.Format(constants.DateLayout), a.Slot)
	}
	return err
}

func (r *AppointmentRepository) selectBuilder() sq.SelectBuilder {
	return bd.Psql.Select(appointmentColumns...).
		From("appointments AS a").
		Join("customers c ON c.id = a.customer_id").
		Join("services s ON s.id = a.service_id")
}

func applyAppointmentRange(b sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	if from, ok := filter.String("date_from"); ok {
		b = b.Where(sq.GtOrEq{"a.date": from})
	}
	if to, ok := filter.String("date_to"); ok {
		b = b.Where(sq.LtOrEq{"a.date": to})
	}
	return b
}

func (r *AppointmentRepository) GetAppointments(ctx context.Context, filter types.Filter) ([]entities.Appointment, uint64, error) {
	countBuilder := bd.Psql.Select("COUNT(a.id)").From("appointments AS a")
	countBuilder = applyAppointmentRange(countBuilder, filter)
	countBuilder = bd.ApplyListParams(countBuilder, bd.CountFilter(filter), appointmentMap)

	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта записей: %w", err)
	}
	if total == 0 {
		return []entities.Appointment{}, 0, nil
	}

	baseBuilder := applyAppointmentRange(r.selectBuilder(), filter)
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("a.date ASC", "a.slot ASC")
	}
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, appointmentMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	list, err := r.query(ctx, query, args...)
	return list, total, err
}

func (r *AppointmentRepository) GetAppointmentsBetween(ctx context.Context, from, to time.Time) ([]entities.Appointment, error) {
	query, args, err := r.selectBuilder().
		Where(sq.GtOrEq{"a.date": from.Format(constants.DateLayout)}).
		Where(sq.LtOrEq{"a.date": to.Format(constants.DateLayout)}).
		OrderBy("a.date ASC", "a.slot ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.query(ctx, query, args...)
}

func (r *AppointmentRepository) query(ctx context.Context, query string, args ...interface{}) ([]entities.Appointment, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows, true)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

func (r *AppointmentRepository) FindAppointment(ctx context.Context, id uint64) (*entities.Appointment, error) {
	query, args, err := r.selectBuilder().Where(sq.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanAppointment(r.storage.QueryRow(ctx, query, args...), true)
}

func (r *AppointmentRepository) IsSlotTaken(ctx context.Context, date time.Time, slot string, excludeID uint64) (bool, error) {
	var taken bool
	err := r.storage.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM appointments WHERE date = $1::date AND slot = $2 AND id <> $3)",
		date.Format(constants.DateLayout), slot, excludeID,
	).Scan(&taken)
	return taken, err
}

func (r *AppointmentRepository) BookedSlots(ctx context.Context, date time.Time) ([]string, error) {
	rows, err := r.storage.Query(ctx, "SELECT slot FROM appointments WHERE date = $1::date ORDER BY slot", date.Format(constants.DateLayout))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *AppointmentRepository) CreateAppointment(ctx context.Context, appointment *entities.Appointment) error {
	query := `
		INSERT INTO appointments (customer_id, service_id, date, slot)
		VALUES ($1, $2, $3::date, $4)
		RETURNING ` + appointmentReturning
	created, err := scanAppointment(r.storage.QueryRow(ctx, query,
		appointment.CustomerID, appointment.ServiceID, appointment.Date.Format(constants.DateLayout), appointment.Slot,
	), false)
	if err != nil {
		return appointmentWriteError(err, appointment)
	}
	created.CustomerName, created.ServiceName = appointment.CustomerName, appointment.ServiceName
	*appointment = *created
	return nil
}

func (r *AppointmentRepository) UpdateAppointment(ctx context.Context, appointment *entities.Appointment) error {
	query := `
		UPDATE appointments SET customer_id = $1, service_id = $2, date = $3::date, slot = $4
		WHERE id = $5
		RETURNING ` + appointmentReturning
	updated, err := scanAppointment(r.storage.QueryRow(ctx, query,
		appointment.CustomerID, appointment.ServiceID, appointment.Date.Format(constants.DateLayout), appointment.Slot, appointment.ID,
	), false)
	if err != nil {
		return appointmentWriteError(err, appointment)
	}
	updated.CustomerName, updated.ServiceName = appointment.CustomerName, appointment.ServiceName
	*appointment = *updated
	return nil
}

func (r *AppointmentRepository) DeleteAppointment(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM appointments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
