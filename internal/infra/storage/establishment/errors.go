package establishment

import "errors"

var (
	// ErrEstablishmentNotFound возвращается, когда заведение не найдено
	ErrEstablishmentNotFound = errors.New("establishment.repository: establishment not found")

	// ErrNotMember возвращается, когда пользователь не состоит в заведении
	ErrNotMember = errors.New("establishment.repository: user is not a member")

	// ErrCorruptedWorkingHours возвращается, когда сохраненный JSON расписания не читается или невалиден
	ErrCorruptedWorkingHours = errors.New("establishment.repository: corrupted working hours")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("establishment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("establishment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("establishment.repository: failed to scan row")
)
