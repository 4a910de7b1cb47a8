package establishments

import "errors"

var (
	// ErrEstablishmentNotFound возвращается, когда заведение не найдено
	ErrEstablishmentNotFound = errors.New("establishment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на изменение расписания
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при невалидном расписании
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
