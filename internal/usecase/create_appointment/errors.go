package create_appointment

import "errors"

var (
	// ErrInvalidService услуга не найдена, принадлежит другому заведению или неактивна
	ErrInvalidService = errors.New("create_appointment: invalid service")

	// ErrEstablishmentNotFound возвращается, когда заведение не найдено
	ErrEstablishmentNotFound = errors.New("create_appointment: establishment not found")

	// ErrNotConfigured у заведения нет расписания или часового пояса
	ErrNotConfigured = errors.New("create_appointment: establishment working hours are not configured")

	// ErrOutsideWorkingHours интервал выходит за рабочие часы или пересекает обед
	ErrOutsideWorkingHours = errors.New("create_appointment: requested time is outside working hours")

	// ErrSlotTaken интервал пересекается с активной записью
	ErrSlotTaken = errors.New("create_appointment: slot already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
