package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"user_id",
	"company_id",
	"slot_number",
	"booking_date",
	"arrival_time",
	"status",
	"has_arrived",
	"has_left",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Нарушение уникальности или сбой сериализации возвращаются как ErrConflict
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"company_id",
			"slot_number",
			"booking_date",
			"arrival_time",
			"status",
			"has_arrived",
			"has_left",
		).
		Values(
			booking.UserID,
			booking.CompanyID,
			booking.SlotNumber,
			domain.DateOnly(booking.BookingDate),
			booking.ArrivalTime,
			booking.Status,
			booking.HasArrived,
			booking.HasLeft,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, execError("Create - execute insert", err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByUserID получает список бронирований пользователя, сначала новые
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	uid := userID
	return r.GetByFilter(ctx, domain.BookingsFilter{UserID: &uid, Status: status})
}

// GetActiveByUserID получает подтверждённые бронирования пользователя без выезда.
// Внутри транзакции строки блокируются (FOR UPDATE), чтобы параллельное создание
// второго бронирования упёрлось в блокировку или сбой сериализации
func (r *Repository) GetActiveByUserID(ctx context.Context, userID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID, "status": domain.StatusConfirmed, "has_left": false}).
		OrderBy("booking_date ASC", "id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, execError("GetActiveByUserID - execute query", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByFilter получает бронирования с гибкой фильтрацией
//
// Примеры использования:
//
// 1. Активный набор на сегодня:
//    filter := domain.BookingsFilter{StartDate: &today, EndDate: &today, Status: &confirmed, ExcludeLeft: true}
//
// 2. Все бронирования для отчёта:
//    filter := domain.BookingsFilter{}
func (r *Repository) GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).From("bookings")

	if len(filter.CompanyIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"company_id": filter.CompanyIDs})
	}
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": domain.DateOnly(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": domain.DateOnly(*filter.EndDate)})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.ExcludeLeft {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"has_left": false})
	}

	// Для конкретной даты сортируем по времени въезда, иначе сначала новые
	if filter.StartDate != nil && filter.EndDate != nil && domain.SameDate(*filter.StartDate, *filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("arrival_time ASC", "id ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC", "arrival_time DESC", "id DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, execError("GetByFilter - execute query", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetSlotNumbers возвращает номера мест, занятых подтверждёнными бронированиями компании на дату.
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) GetSlotNumbers(ctx context.Context, companyID int64, date time.Time) ([]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("slot_number").
		From("bookings").
		Where(squirrel.Eq{
			"company_id":   companyID,
			"booking_date": domain.DateOnly(date),
			"status":       domain.StatusConfirmed,
		}).
		OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlotNumbers - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, execError("GetSlotNumbers - execute query", err)
	}
	defer rows.Close()

	slots := make([]string, 0)
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("%w: GetSlotNumbers - scan slot_number: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetSlotNumbers - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// MarkArrived отмечает въезд. Обновление выполняется только для подтверждённого
// бронирования без въезда, дата которого не раньше today
func (r *Repository) MarkArrived(ctx context.Context, id int64, today time.Time) error {
	return r.conditionalUpdate(ctx, "MarkArrived", id,
		squirrel.Eq{"has_arrived": true},
		squirrel.And{
			squirrel.Eq{"status": domain.StatusConfirmed, "has_arrived": false},
			squirrel.GtOrEq{"booking_date": domain.DateOnly(today)},
		},
	)
}

// MarkLeft отмечает выезд. Статус бронирования не меняется
func (r *Repository) MarkLeft(ctx context.Context, id int64) error {
	return r.conditionalUpdate(ctx, "MarkLeft", id,
		squirrel.Eq{"has_left": true},
		squirrel.Eq{"status": domain.StatusConfirmed, "has_arrived": true, "has_left": false},
	)
}

// Cancel отменяет бронирование. Обновление выполняется только для подтверждённого
// бронирования без выезда, которое не просрочено на дату today
func (r *Repository) Cancel(ctx context.Context, id int64, today time.Time) error {
	return r.conditionalUpdate(ctx, "Cancel", id,
		squirrel.Eq{"status": domain.StatusCancelled},
		squirrel.And{
			squirrel.Eq{"status": domain.StatusConfirmed, "has_left": false},
			squirrel.Or{
				squirrel.Eq{"has_arrived": true},
				squirrel.GtOrEq{"booking_date": domain.DateOnly(today)},
			},
		},
	)
}

// conditionalUpdate выполняет UPDATE ... WHERE id = ? AND <condition>.
// Если ни одна строка не обновлена, различает отсутствие бронирования (ErrBookingNotFound)
// и невыполненное условие (ErrConditionNotMet)
func (r *Repository) conditionalUpdate(
	ctx context.Context,
	op string,
	id int64,
	set squirrel.Eq,
	condition squirrel.Sqlizer,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		SetMap(set).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(condition).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return execError(op+" - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected > 0 {
		return nil
	}

	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBookingNotFound
	}
	return ErrConditionNotMet
}

func (r *Repository) exists(ctx context.Context, id int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: exists - scan: %v", ErrScanRow, err)
	}
	return true, nil
}

// execError оборачивает ошибку выполнения запроса, выделяя конфликты конкурентной записи
func execError(op string, err error) error {
	if IsConflict(err) {
		return fmt.Errorf("%w: %s: %v", ErrConflict, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.CompanyID,
		&booking.SlotNumber,
		&booking.BookingDate,
		&booking.ArrivalTime,
		&booking.Status,
		&booking.HasArrived,
		&booking.HasLeft,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.BookingDate = domain.DateOnly(booking.BookingDate)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
