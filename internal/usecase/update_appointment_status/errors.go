package update_appointment_status

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена или принадлежит другому заведению
	ErrAppointmentNotFound = errors.New("update_appointment_status: appointment not found")

	// ErrAccessDenied пользователь не может управлять записями заведения
	ErrAccessDenied = errors.New("update_appointment_status: access denied")

	// ErrSlotTaken возврат записи в активный статус пересекается с другой активной записью
	ErrSlotTaken = errors.New("update_appointment_status: slot already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_appointment_status: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_appointment_status: internal error")
)
