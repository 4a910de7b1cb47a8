package appointments

import (
	"context"

	"github.com/orkestre/agenda-service/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByEstablishmentWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// EstablishmentRepository интерфейс репозитория заведений
type EstablishmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Establishment, error)
	GetMemberRole(ctx context.Context, establishmentID, userID int64) (domain.MemberRole, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
