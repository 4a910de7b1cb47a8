package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/orkestre/agenda-service/internal/domain"
	"github.com/orkestre/agenda-service/pkg/dbmetrics"
	"github.com/orkestre/agenda-service/pkg/psqlbuilder"
)

// SQLSTATE exclusion_violation
const pgExclusionViolation = "23P01"

var appointmentColumns = []string{
	"id",
	"establishment_id",
	"service_id",
	"start_time",
	"end_time",
	"status",
	"customer_name",
	"customer_phone",
	"customer_email",
	"notes_by_customer",
	"notes_by_establishment",
	"reminder_sent_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись
// Если в контексте передана активная транзакция, использует её.
// Нарушение ограничения appointments_no_overlap возвращается как ErrOverlap.
// Исходная ошибка драйвера сохраняется в цепочке, чтобы менеджер транзакций
// распознал конфликт сериализации
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"establishment_id",
			"service_id",
			"start_time",
			"end_time",
			"status",
			"customer_name",
			"customer_phone",
			"customer_email",
			"notes_by_customer",
			"notes_by_establishment",
		).
		Values(
			appt.EstablishmentID,
			appt.ServiceID,
			appt.StartTime.UTC(),
			appt.EndTime.UTC(),
			appt.Status,
			appt.CustomerName,
			appt.CustomerPhone,
			appt.CustomerEmail,
			appt.NotesByCustomer,
			appt.NotesByEstablishment,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgExclusionViolation {
			return nil, fmt.Errorf("%w: Create - constraint %s", ErrOverlap, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID
// Внутри транзакции строка блокируется (FOR UPDATE) до её завершения
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return appt, nil
}

// GetByEstablishmentWithFilter получает записи заведения с фильтрацией по периоду и статусам
//
// Примеры использования:
//
// 1. Активные записи на день (для расчёта слотов):
//
//	filter := domain.AppointmentsFilter{
//		EstablishmentID: 7,
//		StartFrom:       &dayStartUTC,
//		StartTo:         &dayEndUTC,
//		Statuses:        domain.SlotBlockingStatuses,
//	}
//
// 2. Последние 50 записей заведения:
//
//	filter := domain.AppointmentsFilter{EstablishmentID: 7, Limit: 50}
//
// Если выбран ограниченный период и есть транзакция, строки блокируются (FOR UPDATE),
// чтобы параллельное создание записи на тот же день дождалось текущей
func (r *Repository) GetByEstablishmentWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"establishment_id": filter.EstablishmentID})

	if filter.StartFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": filter.StartFrom.UTC()})
	}
	if filter.StartTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": filter.StartTo.UTC()})
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statuses})
	}

	bounded := filter.StartFrom != nil && filter.StartTo != nil
	if bounded {
		// Для конкретного периода сортируем по времени начала (ASC)
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("start_time DESC")
	}

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(filter.Offset)
	}

	if dbmetrics.IsInTransaction(ctx) && bounded {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEstablishmentWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEstablishmentWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// LockEstablishment берет транзакционную advisory-блокировку заведения
// Параллельные создания записей одного заведения выполняются последовательно;
// блокировка снимается при завершении транзакции
func (r *Repository) LockEstablishment(ctx context.Context, establishmentID int64) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return ErrNotInTransaction
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", establishmentID); err != nil {
		return fmt.Errorf("%w: LockEstablishment - establishment id=%d: %w", ErrExecQuery, establishmentID, err)
	}

	return nil
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgExclusionViolation {
			return fmt.Errorf("%w: UpdateStatus - constraint %s", ErrOverlap, pqErr.Constraint)
		}
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// GetDueForReminder получает подтвержденные записи без отправленного напоминания,
// начало которых попадает в полуинтервал (from, to]
// Внутри транзакции строки блокируются с SKIP LOCKED, чтобы параллельные
// экземпляры планировщика не отправили одно напоминание дважды
func (r *Repository) GetDueForReminder(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"status": string(domain.StatusConfirmed)}).
		Where(squirrel.Eq{"reminder_sent_at": nil}).
		Where(squirrel.Gt{"start_time": from.UTC()}).
		Where(squirrel.LtOrEq{"start_time": to.UTC()}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE SKIP LOCKED")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDueForReminder - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDueForReminder - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// MarkReminderSent отмечает отправку напоминания
// Отметка ставится не более одного раза: повторный вызов вернет ErrReminderAlreadySent
func (r *Repository) MarkReminderSent(ctx context.Context, id int64, sentAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("reminder_sent_at", sentAt.UTC()).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"reminder_sent_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReminderAlreadySent
	}

	return nil
}

// ResetReminderSent снимает отметку об отправке, чтобы следующий проход планировщика повторил попытку
// Используется воркером доставки, когда отправка из очереди не удалась
func (r *Repository) ResetReminderSent(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("reminder_sent_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ResetReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ResetReminderSent - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ResetReminderSent - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan appointment: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var status string
	var customerEmail, notesByCustomer, notesByEstablishment sql.NullString
	var reminderSentAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.EstablishmentID,
		&appt.ServiceID,
		&appt.StartTime,
		&appt.EndTime,
		&status,
		&appt.CustomerName,
		&appt.CustomerPhone,
		&customerEmail,
		&notesByCustomer,
		&notesByEstablishment,
		&reminderSentAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.Status = domain.AppointmentStatus(status)
	appt.StartTime = appt.StartTime.UTC()
	appt.EndTime = appt.EndTime.UTC()
	appt.CustomerEmail = nullStringPtr(customerEmail)
	appt.NotesByCustomer = nullStringPtr(notesByCustomer)
	appt.NotesByEstablishment = nullStringPtr(notesByEstablishment)
	if reminderSentAt.Valid {
		sentAt := reminderSentAt.Time.UTC()
		appt.ReminderSentAt = &sentAt
	}
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
