package create_appointment

import (
	"context"

	"github.com/orkestre/agenda-service/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByEstablishmentWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	LockEstablishment(ctx context.Context, establishmentID int64) error
}

// EstablishmentRepository интерфейс репозитория заведений
type EstablishmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Establishment, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики создания записей
type Metrics interface {
	IncAppointmentCreated(establishmentID int64)
	IncBookingConflict(establishmentID int64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
