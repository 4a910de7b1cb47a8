package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrOverlap возвращается, когда вставка нарушает ограничение appointments_no_overlap
	ErrOverlap = errors.New("appointment.repository: appointment overlaps an existing one")

	// ErrReminderAlreadySent возвращается, когда напоминание по записи уже отмечено
	ErrReminderAlreadySent = errors.New("appointment.repository: reminder already sent")

	// ErrNotInTransaction возвращается операциями, которые имеют смысл только внутри транзакции
	ErrNotInTransaction = errors.New("appointment.repository: operation requires a transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
