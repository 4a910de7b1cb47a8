package deliver_reminder

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("deliver_reminder: appointment not found")

	// ErrNotConfirmed запись больше не подтверждена, напоминание не отправляется
	ErrNotConfirmed = errors.New("deliver_reminder: appointment is no longer confirmed")

	// ErrInvalidPhone номер клиента не содержит цифр
	ErrInvalidPhone = errors.New("deliver_reminder: invalid customer phone")

	// ErrDeliveryFailed мессенджер отклонил сообщение
	ErrDeliveryFailed = errors.New("deliver_reminder: delivery failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("deliver_reminder: internal error")
)
